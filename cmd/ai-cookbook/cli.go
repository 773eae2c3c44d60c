package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ai-cookbook/internal/app"
	"ai-cookbook/internal/generator"
	"ai-cookbook/internal/input"
	"ai-cookbook/internal/profile"
	"ai-cookbook/internal/recipe"
	"ai-cookbook/internal/session"
	"ai-cookbook/internal/shopping"
)

var errUsage = errors.New("usage")

// run executes one subcommand against the local session.
func run(ctx context.Context, a *app.App, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	if args[0] == "metrics-cleanup" {
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ContinueOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		if err := cleanupCmd.Parse(args[1:]); err != nil {
			return err
		}
		if a.Metrics() == nil {
			return fmt.Errorf("metrics are not enabled")
		}
		affected, err := a.Metrics().Cleanup(ctx, *days)
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		fmt.Fprintf(out, "Successfully removed %d old metric records.\n", affected)
		return nil
	}

	sess, err := a.OpenSession(ctx, namespace)
	if err != nil {
		return err
	}
	rest := args[1:]

	switch args[0] {
	case "login":
		loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
		name := loginCmd.String("name", "", "Display name")
		email := loginCmd.String("email", "", "Email address")
		if err := loginCmd.Parse(rest); err != nil {
			return err
		}
		if err := sess.Login(ctx, profile.AuthIdentity{UID: namespace, DisplayName: *name, Email: *email, Provider: "local"}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Signed in as %s. Stage: %s\n", sess.Profile().Name, sess.Stage())

	case "choose":
		if len(rest) != 1 {
			return errUsage
		}
		switch rest[0] {
		case "create":
			err = sess.ChooseCreate(ctx)
		case "join":
			err = sess.ChooseJoin(ctx)
		case "back":
			err = sess.BackToChoice(ctx)
		default:
			return errUsage
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Stage: %s\n", sess.Stage())

	case "join":
		if sess.Stage() == session.StageInitialChoice {
			if err := sess.ChooseJoin(ctx); err != nil {
				return err
			}
		}
		form, err := input.FamilyCode(strings.Join(rest, " "))
		if err != nil {
			return err
		}
		fam, err := a.RedeemInvite(ctx, sess, form.Code)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Joined %s.\n", fam.Name)

	case "onboard":
		patch, err := input.Profile(strings.Join(rest, " "))
		if err != nil {
			return err
		}
		if err := sess.SaveProfile(ctx, patch); err != nil {
			return err
		}
		fmt.Fprintf(out, "Profile saved. Stage: %s\n", sess.Stage())

	case "stage":
		fmt.Fprintf(out, "Stage: %s\nTab: %s\n", sess.Stage(), sess.Tab())

	case "generate":
		return generate(ctx, a, sess, rest, in, out)

	case "library":
		libCmd := flag.NewFlagSet("library", flag.ContinueOnError)
		term := libCmd.String("q", "", "Search name, description and ingredients")
		cuisine := libCmd.String("cuisine", "", "Only this cuisine")
		favs := libCmd.Bool("fav", false, "Only favourites")
		if err := libCmd.Parse(rest); err != nil {
			return err
		}
		q := recipe.Query{Term: *term, FavoritesOnly: *favs}
		if *cuisine != "" {
			q.Cuisines = []recipe.Cuisine{recipe.Cuisine(*cuisine)}
		}
		for _, r := range recipe.Filter(sess.Library(), q) {
			star := " "
			if r.IsFavorite {
				star = "*"
			}
			fmt.Fprintf(out, "%s %s  %s\n", star, r.ID, r.Name)
		}

	case "lists":
		st := sess.Lists()
		for i, l := range st.Lists {
			marker := ""
			if l.ID == st.ActiveID {
				marker = " (active)"
			}
			fmt.Fprintf(out, "%d. %s %s, %d items%s\n", i+1, l.Icon, l.Name, len(l.Items), marker)
		}

	case "newlist":
		form, err := input.ListName(strings.Join(rest, " "))
		if err != nil {
			return err
		}
		if _, err := sess.CreateList(ctx, form.Name, ""); err != nil {
			return err
		}
		fmt.Fprintf(out, "Created %s.\n", form.Name)

	case "uselist":
		if len(rest) != 1 {
			return errUsage
		}
		n, err := strconv.Atoi(rest[0])
		lists := sess.Lists().Lists
		if err != nil || n < 1 || n > len(lists) {
			return fmt.Errorf("no list number %s", rest[0])
		}
		if err := sess.SetActiveList(ctx, lists[n-1].ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Using %s.\n", lists[n-1].Name)

	case "additem":
		if len(rest) == 0 {
			return errUsage
		}
		qty := ""
		if len(rest) > 1 {
			qty = strings.Join(rest[1:], " ")
		}
		form, err := input.Item(rest[0], qty)
		if err != nil {
			return err
		}
		active, ok := sess.Lists().Active()
		if !ok {
			return shopping.ErrNoActiveList
		}
		if err := sess.AddItem(ctx, active.ID, form.Name, form.Quantity); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %s.\n", form.Name)

	case "show":
		active, ok := sess.Lists().Active()
		if !ok {
			return shopping.ErrNoActiveList
		}
		fmt.Fprintf(out, "%s %s\n", active.Icon, active.Name)
		for _, g := range shopping.GroupByCategory(active) {
			fmt.Fprintf(out, "\n%s\n", g.Category)
			for _, it := range g.Items {
				if it.Recipe != "" {
					fmt.Fprintf(out, "  - %s (%s) for %s\n", it.Name, it.Quantity, it.Recipe)
					continue
				}
				fmt.Fprintf(out, "  - %s (%s)\n", it.Name, it.Quantity)
			}
		}

	case "import":
		if len(rest) != 1 {
			return errUsage
		}
		r, err := a.ImportRecipe(ctx, sess, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Imported %s (%s).\n", r.Name, r.ID)

	case "publish":
		if len(rest) != 1 {
			return errUsage
		}
		post, err := a.PublishRecipe(ctx, sess, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Created draft %s (%s).\n", post.Title, post.ID)

	case "invite":
		code, err := a.Invite(ctx, sess)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, code)

	case "logout":
		if err := sess.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Signed out.")

	default:
		return errUsage
	}
	return nil
}

// generate requests a batch and walks the review queue on in: a accepts,
// r rejects, q stops.
func generate(ctx context.Context, a *app.App, sess *session.Session, args []string, in io.Reader, out io.Writer) error {
	genCmd := flag.NewFlagSet("generate", flag.ContinueOnError)
	dessert := genCmd.Bool("dessert", false, "Generate desserts")
	people := genCmd.String("people", "", "Number of people")
	budget := genCmd.String("budget", "", "Budget, e.g. $30")
	if err := genCmd.Parse(args); err != nil {
		return err
	}

	if p := sess.Profile(); p != nil {
		if *people == "" {
			*people = strconv.Itoa(p.LastNumPeople)
		}
		if *budget == "" {
			*budget = p.LastBudget
		}
	}
	form, err := input.Generation(*people, *budget)
	if err != nil {
		return err
	}

	focus := generator.FocusMeal
	if *dessert {
		focus = generator.FocusDessert
	}
	fmt.Fprintf(out, "Generating %s ideas for %d...\n", strings.ToLower(string(focus)), form.NumPeople)
	if _, err := a.Generate(ctx, sess, focus, form.NumPeople, form.Budget); err != nil {
		return errors.New(generator.UserMessage(err))
	}

	scanner := bufio.NewScanner(in)
	for {
		q := sess.Queue(focus)
		r, ok := q.Current()
		if !ok {
			fmt.Fprintln(out, "All done.")
			return nil
		}
		pos, total := q.Position()
		fmt.Fprintf(out, "\n[%d/%d] %s\n%s\n", pos+1, total, r.Name, r.Description)
		for _, ing := range r.Ingredients {
			fmt.Fprintf(out, "  - %s\n", strings.TrimSpace(ing.Quantity+" "+ing.Unit+" "+ing.Name))
		}
		fmt.Fprint(out, "(a)ccept, (r)eject, (q)uit? ")

		if !scanner.Scan() {
			return scanner.Err()
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "a", "accept":
			_, _, err = a.Accept(ctx, sess, focus)
		case "r", "reject":
			_, _, err = a.Reject(ctx, sess, focus)
		case "q", "quit":
			return nil
		}
		if err != nil {
			return err
		}
	}
}
