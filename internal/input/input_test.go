package input

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneration(t *testing.T) {
	f, err := Generation(" 4 ", "  $50 ")
	require.NoError(t, err)
	assert.Equal(t, GenerationForm{NumPeople: 4, Budget: "$50"}, f)

	tests := []struct {
		people string
		budget string
		want   string
	}{
		{"0", "", "Number of people must be greater than 0."},
		{"-2", "", "Number of people must be greater than 0."},
		{"51", "", "Number of people must be at most 50."},
		{"two", "", "Number of people must be a whole number."},
		{"2", strings.Repeat("x", 121), "Budget must be at most 120 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.people, func(t *testing.T) {
			_, err := Generation(tt.people, tt.budget)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Error())
		})
	}
}

func TestListName(t *testing.T) {
	f, err := ListName("  Party ")
	require.NoError(t, err)
	assert.Equal(t, "Party", f.Name)

	_, err = ListName("   ")
	assert.EqualError(t, err, "Name cannot be empty.")
}

func TestFamilyCode(t *testing.T) {
	_, err := FamilyCode("")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Code", verr.Field)
	assert.Equal(t, "Family code cannot be empty.", verr.Message)

	f, err := FamilyCode(" abc ")
	require.NoError(t, err)
	assert.Equal(t, "abc", f.Code)
}

func TestItem(t *testing.T) {
	f, err := Item(" Milk ", "")
	require.NoError(t, err)
	assert.Equal(t, ItemForm{Name: "Milk"}, f)

	_, err = Item("Milk", strings.Repeat("9", 41))
	assert.EqualError(t, err, "Quantity must be at most 40 characters.")
}
