package telegram

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"strconv"
	"strings"

	"ai-cookbook/internal/app"
	"ai-cookbook/internal/clipper"
	"ai-cookbook/internal/family"
	"ai-cookbook/internal/generator"
	"ai-cookbook/internal/input"
	"ai-cookbook/internal/metrics"
	"ai-cookbook/internal/profile"
	"ai-cookbook/internal/recipe"
	"ai-cookbook/internal/session"
	"ai-cookbook/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes.
const (
	cbChoice   = "choice"
	cbReview   = "review"
	cbDelete   = "delete"
	cbDropList = "droplist"
	cbCancel   = "cancel"
)

func (b *Bot) handleMessage(ctx context.Context, sess *session.Session, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !msg.IsCommand() {
		text := strings.TrimSpace(msg.Text)
		if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
			b.handleImport(ctx, sess, chatID, text)
			return
		}
		b.send(chatID, "Send /help to see what I can do.", nil)
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, sess, msg)
		return
	case "help":
		b.send(chatID, helpText, nil)
		return
	case "join":
		b.handleJoin(ctx, sess, chatID, args)
		return
	case "profile":
		b.handleProfile(ctx, sess, chatID, args)
		return
	case "logout":
		if err := sess.Logout(ctx); err != nil {
			b.fail(chatID, err)
			return
		}
		b.send(chatID, "👋 Signed out and your data was deleted. Send /start to begin again.", nil)
		return
	case "metrics":
		b.handleMetrics(ctx, msg)
		return
	}

	if sess.Stage() != session.StageMainApp {
		b.send(chatID, stagePrompt(sess), nil)
		return
	}

	var err error
	switch msg.Command() {
	case "generate":
		b.handleGenerate(ctx, sess, chatID, generator.FocusMeal, args)
	case "desserts":
		b.handleGenerate(ctx, sess, chatID, generator.FocusDessert, args)
	case "favorites":
		b.send(chatID, formatRecipeList("⭐ *Favorites*", sess.ProfileState().Favorites(), "No favourites yet. Try /generate"), nil)
	case "library":
		empty := "Your library is empty."
		if args != "" {
			empty = "No saved recipe matches that search."
		}
		b.send(chatID, formatRecipeList("📚 *Library*", recipe.Filter(sess.Library(), recipe.Query{Term: args}), empty), nil)
	case "disliked":
		b.send(chatID, formatRecipeList("👎 *Disliked*", sess.Profile().DislikedRecipes, "Nothing disliked yet."), nil)
	case "fav":
		err = b.handleToggleFavorite(ctx, sess, chatID, args)
	case "undislike":
		if err = sess.UndislikeRecipe(ctx, args); err == nil {
			b.send(chatID, "↩️ Removed from your disliked recipes.", nil)
		}
	case "delete":
		err = b.confirmDeleteRecipe(sess, chatID, args)
	case "import":
		b.handleImport(ctx, sess, chatID, args)
	case "publish":
		err = b.handlePublish(ctx, sess, chatID, args)
	case "invite":
		err = b.handleInvite(ctx, sess, chatID)
	case "lists":
		b.send(chatID, formatLists(sess.Lists()), nil)
	case "newlist":
		err = b.handleNewList(ctx, sess, chatID, args)
	case "use":
		err = b.handleUseList(ctx, sess, chatID, args)
	case "rename":
		err = b.handleRenameList(ctx, sess, chatID, args)
	case "droplist":
		err = b.confirmDropList(sess, chatID, args)
	case "list":
		err = b.showActiveList(sess, chatID)
	case "add":
		err = b.handleAddItem(ctx, sess, chatID, args)
	case "clear":
		err = b.handleClear(ctx, sess, chatID)
	case "shop":
		err = b.handleShopRecipe(ctx, sess, chatID, args)
	case "plan":
		err = b.handlePlan(ctx, sess, chatID, args)
	case "planshop":
		err = b.handlePlanShop(ctx, sess, chatID)
	default:
		b.send(chatID, "🤔 Unknown command. Send /help for the list.", nil)
	}
	if err != nil {
		b.fail(chatID, err)
	}
}

func (b *Bot) fail(chatID int64, err error) {
	log.Printf("Command failed for chat %d: %v", chatID, err)
	b.send(chatID, userMessage(err), nil)
}

// userMessage turns an error into a reply.
func userMessage(err error) string {
	var verr *input.ValidationError
	switch {
	case errors.As(err, &verr):
		return "⚠️ " + esc(verr.Message)
	case errors.Is(err, session.ErrStageNotReady):
		return "🔒 Finish setting up first. Send /start."
	case errors.Is(err, session.ErrInvalidTransition):
		return "🚫 That is not available right now. Send /start."
	case errors.Is(err, shopping.ErrNoActiveList):
		return "🛒 No active list. Create one with /newlist <name>."
	case errors.Is(err, family.ErrInvalidInvite):
		return "❌ That invite code is not valid."
	case errors.Is(err, app.ErrRecipeNotFound):
		return "🔍 No recipe with that id in your library."
	case errors.Is(err, app.ErrPublishingDisabled):
		return "📝 Publishing is not configured."
	case errors.Is(err, clipper.ErrNoRecipe):
		return "🤷 I couldn't find a recipe on that page."
	case errors.Is(err, generator.ErrMissingCredential),
		errors.Is(err, generator.ErrInvalidCredential),
		errors.Is(err, generator.ErrQuotaExhausted),
		errors.Is(err, generator.ErrMalformedResponse),
		errors.Is(err, generator.ErrNoRecipes):
		return "❌ " + esc(generator.UserMessage(err))
	}
	return "❌ *Error:*\n```\n" + strings.ReplaceAll(err.Error(), "`", "'") + "\n```"
}

// stagePrompt tells the user what to do next at the session's stage.
func stagePrompt(sess *session.Session) string {
	switch sess.Stage() {
	case session.StageAuth:
		return "👋 Send /start to sign in."
	case session.StageInitialChoice:
		return "👋 Send /start to create a profile or join a family."
	case session.StageJoinFamily:
		return "👪 Send /join <code> with the invite code from your family."
	case session.StageOnboarding:
		return "📝 Set up your profile, e.g.\n/profile diet=Vegetarian; skill=Beginner; equipment=Oven, Stovetop\nor just /profile to start with the defaults."
	}
	return helpText
}

func choiceKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆕 Create profile", cbChoice+"|create"),
			tgbotapi.NewInlineKeyboardButtonData("👪 Join family", cbChoice+"|join"),
		),
	)
	return &kb
}

func backKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", cbChoice+"|back")),
	)
	return &kb
}

// cardToken identifies the candidate a review card shows: its position in
// the batch and a hash of its id. Callback data is limited to 64 bytes, so
// the id itself is not sent.
func cardToken(pos int, r recipe.Recipe) string {
	h := fnv.New32a()
	h.Write([]byte(r.ID))
	return fmt.Sprintf("%d.%08x", pos, h.Sum32())
}

func reviewKeyboard(focus generator.Focus, token string) *tgbotapi.InlineKeyboardMarkup {
	data := func(decision string) string {
		return strings.Join([]string{cbReview, string(focus), decision, token}, "|")
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Save", data("accept")),
			tgbotapi.NewInlineKeyboardButtonData("❌ Skip", data("reject")),
		),
	)
	return &kb
}

func confirmKeyboard(action, id string) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", action+"|"+id),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", cbCancel),
		),
	)
	return &kb
}

func (b *Bot) handleStart(ctx context.Context, sess *session.Session, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if sess.Stage() == session.StageAuth {
		if err := sess.Login(ctx, identity(msg.From)); err != nil {
			b.fail(chatID, err)
			return
		}
	}

	name := profile.DefaultName
	if p := sess.Profile(); p != nil {
		name = p.Name
	}
	name = esc(name)
	switch sess.Stage() {
	case session.StageInitialChoice:
		b.send(chatID, fmt.Sprintf("👋 Welcome, *%s*! How would you like to start?", name), choiceKeyboard())
	case session.StageJoinFamily:
		b.send(chatID, stagePrompt(sess), backKeyboard())
	case session.StageOnboarding:
		b.send(chatID, stagePrompt(sess), nil)
	default:
		b.send(chatID, fmt.Sprintf("👋 Welcome back, *%s*!\n\n%s", name, helpText), nil)
	}
}

func (b *Bot) handleJoin(ctx context.Context, sess *session.Session, chatID int64, args string) {
	if sess.Stage() == session.StageInitialChoice {
		if err := sess.ChooseJoin(ctx); err != nil {
			b.fail(chatID, err)
			return
		}
	}
	if sess.Stage() != session.StageJoinFamily {
		b.send(chatID, stagePrompt(sess), nil)
		return
	}

	form, err := input.FamilyCode(args)
	if err != nil {
		b.send(chatID, userMessage(err)+"\n"+stagePrompt(sess), backKeyboard())
		return
	}
	fam, err := b.app.RedeemInvite(ctx, sess, form.Code)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	b.send(chatID, fmt.Sprintf("🎉 You joined *%s*!\n\n%s", esc(fam.Name), helpText), nil)
}

func (b *Bot) handleProfile(ctx context.Context, sess *session.Session, chatID int64, args string) {
	stage := sess.Stage()
	if stage != session.StageOnboarding && stage != session.StageMainApp {
		b.send(chatID, stagePrompt(sess), nil)
		return
	}
	if args == "" && stage == session.StageMainApp {
		b.send(chatID, formatProfile(sess.Profile())+"\nEdit with /profile key=value; ...\nKeys: "+strings.Join(input.ProfileKeys, ", "), nil)
		return
	}

	patch, err := input.Profile(args)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	if err := sess.SaveProfile(ctx, patch); err != nil {
		b.fail(chatID, err)
		return
	}
	if stage == session.StageOnboarding {
		b.send(chatID, "✅ *Profile saved!* You're all set.\n\n"+helpText, nil)
		return
	}
	b.send(chatID, "✅ *Profile updated*\n\n"+formatProfile(sess.Profile()), nil)
}

func (b *Bot) handleGenerate(ctx context.Context, sess *session.Session, chatID int64, focus generator.Focus, args string) {
	p := sess.Profile()
	people := strconv.Itoa(p.LastNumPeople)
	budget := p.LastBudget
	if fields := strings.Fields(args); len(fields) > 0 {
		people = fields[0]
		budget = strings.Join(fields[1:], " ")
	}

	form, err := input.Generation(people, budget)
	if err != nil {
		b.fail(chatID, err)
		return
	}

	done := b.status(chatID, "🧑‍🍳 *Thinking...*\n(Cooking up some ideas for you)")
	if _, err := b.app.Generate(ctx, sess, focus, form.NumPeople, form.Budget); err != nil {
		done(userMessage(err), nil)
		return
	}
	text, markup := reviewView(sess, focus)
	done(text, markup)
}

// reviewView renders the current candidate of the focus queue, or a
// summary once every candidate is decided.
func reviewView(sess *session.Session, focus generator.Focus) (string, *tgbotapi.InlineKeyboardMarkup) {
	q := sess.Queue(focus)
	if r, ok := q.Current(); ok {
		pos, total := q.Position()
		return formatRecipeCard(r, pos, total), reviewKeyboard(focus, cardToken(pos, r))
	}
	if err := q.Err(); err != nil {
		return userMessage(err), nil
	}
	cmd := "/generate"
	if focus == generator.FocusDessert {
		cmd = "/desserts"
	}
	return fmt.Sprintf("🎉 *All done!* See your picks with /favorites or get more with %s.", cmd), nil
}

func (b *Bot) handleCallback(ctx context.Context, sess *session.Session, q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}
	if q.Message == nil {
		return
	}
	chatID, messageID := q.Message.Chat.ID, q.Message.MessageID
	parts := strings.Split(q.Data, "|")

	var err error
	switch parts[0] {
	case cbChoice:
		if len(parts) < 2 {
			return
		}
		switch parts[1] {
		case "create":
			err = sess.ChooseCreate(ctx)
		case "join":
			err = sess.ChooseJoin(ctx)
		case "back":
			err = sess.BackToChoice(ctx)
		}
		if err == nil {
			markup := backKeyboard()
			switch sess.Stage() {
			case session.StageInitialChoice:
				markup = choiceKeyboard()
			case session.StageOnboarding:
				markup = nil
			}
			text := stagePrompt(sess)
			if sess.Stage() == session.StageInitialChoice {
				text = "How would you like to start?"
			}
			b.edit(chatID, messageID, text, markup)
		}
	case cbReview:
		if len(parts) < 4 {
			return
		}
		err = b.handleDecision(ctx, sess, chatID, messageID, generator.Focus(parts[1]), parts[2], parts[3])
	case cbDelete:
		if len(parts) < 2 {
			return
		}
		r, ok := sess.ProfileState().Recipe(parts[1])
		if !ok {
			err = app.ErrRecipeNotFound
			break
		}
		if err = sess.DeleteRecipe(ctx, r.ID); err == nil {
			b.edit(chatID, messageID, fmt.Sprintf("🗑 Deleted *%s*.", esc(r.Name)), nil)
		}
	case cbDropList:
		if len(parts) < 2 {
			return
		}
		l, ok := sess.Lists().Find(parts[1])
		if !ok {
			b.edit(chatID, messageID, "That list no longer exists.", nil)
			return
		}
		if err = sess.DeleteList(ctx, l.ID); err == nil {
			b.edit(chatID, messageID, fmt.Sprintf("🗑 Deleted *%s*.\n\n%s", esc(l.Name), formatLists(sess.Lists())), nil)
		}
	case cbCancel:
		b.edit(chatID, messageID, "👌 Cancelled.", nil)
	}
	if err != nil {
		b.fail(chatID, err)
	}
}

// handleDecision applies a Save or Skip tap. A tap from a card that no
// longer shows the current candidate (a repeated tap, or a card from an
// earlier batch) decides nothing.
func (b *Bot) handleDecision(ctx context.Context, sess *session.Session, chatID int64, messageID int, focus generator.Focus, decision, token string) error {
	q := sess.Queue(focus)
	current, ok := q.Current()
	if !ok {
		b.edit(chatID, messageID, "This batch is finished. Send /generate for more.", nil)
		return nil
	}
	if pos, _ := q.Position(); cardToken(pos, current) != token {
		text, markup := reviewView(sess, focus)
		b.edit(chatID, messageID, "⌛ That card is out of date, nothing was saved.\n\n"+text, markup)
		return nil
	}

	decide := b.app.Reject
	if decision == "accept" {
		decide = b.app.Accept
	}
	r, ok, err := decide(ctx, sess, focus)
	if err != nil {
		return err
	}
	if !ok {
		b.edit(chatID, messageID, "This batch is finished. Send /generate for more.", nil)
		return nil
	}

	note := fmt.Sprintf("👎 Skipped *%s*.", esc(r.Name))
	if decision == "accept" {
		note = fmt.Sprintf("⭐ Saved *%s* to your favourites.", esc(r.Name))
	}
	text, markup := reviewView(sess, focus)
	b.edit(chatID, messageID, note+"\n\n"+text, markup)
	return nil
}

func (b *Bot) handleToggleFavorite(ctx context.Context, sess *session.Session, chatID int64, id string) error {
	if _, ok := sess.ProfileState().Recipe(id); !ok {
		return app.ErrRecipeNotFound
	}
	if err := sess.ToggleFavorite(ctx, id); err != nil {
		return err
	}
	r, _ := sess.ProfileState().Recipe(id)
	if r.IsFavorite {
		b.send(chatID, fmt.Sprintf("⭐ *%s* is a favourite.", esc(r.Name)), nil)
	} else {
		b.send(chatID, fmt.Sprintf("☆ *%s* is no longer a favourite.", esc(r.Name)), nil)
	}
	return nil
}

func (b *Bot) confirmDeleteRecipe(sess *session.Session, chatID int64, id string) error {
	r, ok := sess.ProfileState().Recipe(id)
	if !ok {
		return app.ErrRecipeNotFound
	}
	b.send(chatID, fmt.Sprintf("Delete *%s* from your library?", esc(r.Name)), confirmKeyboard(cbDelete, r.ID))
	return nil
}

func (b *Bot) handleImport(ctx context.Context, sess *session.Session, chatID int64, url string) {
	if sess.Stage() != session.StageMainApp {
		b.send(chatID, stagePrompt(sess), nil)
		return
	}
	if url == "" {
		b.send(chatID, "Usage: /import <url>", nil)
		return
	}

	done := b.status(chatID, "✂️ *Clipping recipe...*")
	r, err := b.app.ImportRecipe(ctx, sess, url)
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		done(userMessage(err), nil)
		return
	}
	done(fmt.Sprintf("✅ *Recipe Saved!*\n\n*%s*\n`%s`", esc(r.Name), r.ID), nil)
}

func (b *Bot) handlePublish(ctx context.Context, sess *session.Session, chatID int64, id string) error {
	post, err := b.app.PublishRecipe(ctx, sess, id)
	if err != nil {
		return err
	}
	b.send(chatID, fmt.Sprintf("📝 Draft *%s* created on the blog.", esc(post.Title)), nil)
	return nil
}

func (b *Bot) handleInvite(ctx context.Context, sess *session.Session, chatID int64) error {
	code, err := b.app.Invite(ctx, sess)
	if err != nil {
		return err
	}
	b.send(chatID, fmt.Sprintf("👪 Share this with your family. They can join with:\n`/join %s`", code), nil)
	return nil
}

// listArg resolves a 1-based list number or a list id.
func listArg(st shopping.State, arg string) (shopping.ShoppingList, bool) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(st.Lists) {
			return shopping.ShoppingList{}, false
		}
		return st.Lists[n-1], true
	}
	return st.Find(arg)
}

func (b *Bot) handleNewList(ctx context.Context, sess *session.Session, chatID int64, args string) error {
	form, err := input.ListName(args)
	if err != nil {
		return err
	}
	if _, err := sess.CreateList(ctx, form.Name, ""); err != nil {
		return err
	}
	b.send(chatID, "🆕 List created and selected.\n\n"+formatLists(sess.Lists()), nil)
	return nil
}

func (b *Bot) handleUseList(ctx context.Context, sess *session.Session, chatID int64, args string) error {
	l, ok := listArg(sess.Lists(), args)
	if !ok {
		b.send(chatID, "Usage: /use <n>\n\n"+formatLists(sess.Lists()), nil)
		return nil
	}
	if err := sess.SetActiveList(ctx, l.ID); err != nil {
		return err
	}
	b.send(chatID, formatShoppingList(l), nil)
	return nil
}

func (b *Bot) handleRenameList(ctx context.Context, sess *session.Session, chatID int64, args string) error {
	ref, name, _ := strings.Cut(args, " ")
	l, ok := listArg(sess.Lists(), ref)
	if !ok {
		b.send(chatID, "Usage: /rename <n> <name>", nil)
		return nil
	}
	form, err := input.ListName(name)
	if err != nil {
		return err
	}
	if err := sess.RenameList(ctx, l.ID, form.Name); err != nil {
		return err
	}
	b.send(chatID, formatLists(sess.Lists()), nil)
	return nil
}

func (b *Bot) confirmDropList(sess *session.Session, chatID int64, args string) error {
	l, ok := listArg(sess.Lists(), args)
	if !ok {
		b.send(chatID, "Usage: /droplist <n>", nil)
		return nil
	}
	if len(sess.Lists().Lists) == 1 {
		b.send(chatID, "🛒 That is your only list. Use /clear to empty it instead.", nil)
		return nil
	}
	b.send(chatID, fmt.Sprintf("Delete the list *%s* and its %d items?", esc(l.Name), len(l.Items)), confirmKeyboard(cbDropList, l.ID))
	return nil
}

func (b *Bot) activeList(sess *session.Session) (shopping.ShoppingList, error) {
	l, ok := sess.Lists().Active()
	if !ok {
		return shopping.ShoppingList{}, shopping.ErrNoActiveList
	}
	return l, nil
}

func (b *Bot) showActiveList(sess *session.Session, chatID int64) error {
	l, err := b.activeList(sess)
	if err != nil {
		return err
	}
	b.send(chatID, formatShoppingList(l), nil)
	return nil
}

func (b *Bot) handleAddItem(ctx context.Context, sess *session.Session, chatID int64, args string) error {
	l, err := b.activeList(sess)
	if err != nil {
		return err
	}
	name, qty, _ := strings.Cut(args, ",")
	form, err := input.Item(name, qty)
	if err != nil {
		return err
	}
	if err := sess.AddItem(ctx, l.ID, form.Name, form.Quantity); err != nil {
		return err
	}
	return b.showActiveList(sess, chatID)
}

func (b *Bot) handleClear(ctx context.Context, sess *session.Session, chatID int64) error {
	l, err := b.activeList(sess)
	if err != nil {
		return err
	}
	if err := sess.ClearItems(ctx, l.ID); err != nil {
		return err
	}
	b.send(chatID, fmt.Sprintf("🧹 Cleared *%s*.", esc(l.Name)), nil)
	return nil
}

func (b *Bot) handleShopRecipe(ctx context.Context, sess *session.Session, chatID int64, id string) error {
	if _, ok := sess.ProfileState().Recipe(id); !ok {
		return app.ErrRecipeNotFound
	}
	if err := sess.AddRecipeToActiveList(ctx, id); err != nil {
		return err
	}
	return b.showActiveList(sess, chatID)
}

func (b *Bot) handlePlan(ctx context.Context, sess *session.Session, chatID int64, args string) error {
	if err := sess.SetWeeklyPlan(ctx, strings.Fields(args)); err != nil {
		return err
	}
	b.send(chatID, formatRecipeList("📅 *Weekly Picks*", sess.ProfileState().WeeklyPlanRecipes(), "No picks. Use /plan <id> <id> ..."), nil)
	return nil
}

func (b *Bot) handlePlanShop(ctx context.Context, sess *session.Session, chatID int64) error {
	if len(sess.ProfileState().WeeklyPlanRecipes()) == 0 {
		b.send(chatID, "📅 No weekly picks yet. Use /plan <id> <id> ...", nil)
		return nil
	}
	if err := sess.AddWeeklyPlanToActiveList(ctx); err != nil {
		return err
	}
	return b.showActiveList(sess, chatID)
}

func (b *Bot) handleMetrics(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.send(chatID, "⛔ *Access Denied*: Admin only.", nil)
		return
	}
	store := b.app.Metrics()
	if store == nil {
		b.send(chatID, "❌ Metrics are not enabled.", nil)
		return
	}
	usage, err := store.GetDailyUsage(ctx, 7)
	if err != nil {
		b.send(chatID, "❌ Error fetching metrics.", nil)
		return
	}
	b.send(chatID, formatUsageReport(usage, metrics.GetSysHealth(b.cfg.DataDir)), nil)
}
