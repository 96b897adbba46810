package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-backend/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newAssistant(t *testing.T, gen llm.Generator) (*AssistantService, reportFixture) {
	t.Helper()
	db := newTestDB(t)
	f := newReportFixture(t, db)
	reports := NewReportService(db)
	reports.now = fixedClock(2024, time.March, 25)
	a := NewAssistantService(reports, NewRoomService(db), gen)
	a.now = fixedClock(2024, time.March, 25)
	return a, f
}

func TestChatPromptSections(t *testing.T) {
	gen := &fakeGenerator{reply: "You have **2** free rooms 🏠"}
	a, f := newAssistant(t, gen)

	res, err := a.Chat(ctx, f.owner.OwnerID, ChatInput{Message: "  How many rooms are free?  "})
	require.NoError(t, err)
	assert.Equal(t, "You have **2** free rooms", res.Response)
	require.Len(t, gen.prompts, 1)
	assert.NotContains(t, gen.prompts[0], "## Portfolio statistics")
	assert.NotContains(t, gen.prompts[0], "## Available rooms")
	assert.NotContains(t, gen.prompts[0], "## Unpaid invoices")
	assert.Contains(t, gen.prompts[0], "## Question\nHow many rooms are free?\n")

	_, err = a.Chat(ctx, f.owner.OwnerID, ChatInput{
		Message:                "Summarise",
		IncludeStats:           true,
		IncludeAvailableRooms:  true,
		IncludePendingInvoices: true,
	})
	require.NoError(t, err)
	prompt := gen.prompts[1]
	assert.Contains(t, prompt, "- Rooms: 3 (2 available, 1 occupied)")
	assert.Contains(t, prompt, "- Occupancy rate: 33.33%")
	assert.Contains(t, prompt, "- Revenue this month: 3,455,000 VND")
	assert.Contains(t, prompt, "- 102 (room #")
	assert.Contains(t, prompt, "2,000,000 VND per month, up to 1 people")
	assert.Contains(t, prompt, "- Outstanding amount: 3,455,000 VND")
	assert.Contains(t, prompt, "- Overdue: 1")

	_, err = a.Chat(ctx, f.owner.OwnerID, ChatInput{Message: "   "})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestChatFallback(t *testing.T) {
	t.Run("generator failure", func(t *testing.T) {
		a, f := newAssistant(t, &fakeGenerator{err: errors.New("upstream 529")})
		res, err := a.Chat(ctx, f.owner.OwnerID, ChatInput{Message: "hello"})
		require.NoError(t, err)
		assert.Contains(t, res.Response, "could not answer right now")
		assert.Equal(t, time.Date(2024, 3, 25, 10, 30, 0, 0, time.UTC), res.Timestamp)
	})

	t.Run("not configured", func(t *testing.T) {
		a, f := newAssistant(t, nil)
		res, err := a.Chat(ctx, f.owner.OwnerID, ChatInput{Message: "hello"})
		require.NoError(t, err)
		assert.Contains(t, res.Response, "not configured")
	})
}

func TestRecommendRooms(t *testing.T) {
	gen := &fakeGenerator{}
	a, f := newAssistant(t, gen)
	db := a.Reports.DB
	createRoom(t, db, f.owner.OwnerID, f.house.HouseID, "103", 2300000, 2)
	createRoom(t, db, f.owner.OwnerID, f.house.HouseID, "104", 1900000, 2)
	createRoom(t, db, f.owner.OwnerID, f.house.HouseID, "105", 2100000, 4)
	createRoom(t, db, f.owner.OwnerID, f.house.HouseID, "106", 1500000, 3)
	createRoom(t, db, f.owner.OwnerID, f.house.HouseID, "107", 2350000, 2)
	createRoom(t, db, f.owner.OwnerID, f.house.HouseID, "108", 2380000, 3)

	res, err := a.RecommendRooms(ctx, f.owner.OwnerID, RecommendInput{Budget: 2000000, Capacity: 2})
	require.NoError(t, err)
	names := make([]string, 0, len(res.Recommendations))
	for _, m := range res.Recommendations {
		names = append(names, m.Name)
	}
	// 102 is too small, 105 too large and 106 too cheap; 108 is the fourth closest.
	assert.Equal(t, []string{"104", "103", "107"}, names)
	assert.Contains(t, res.Response, "1. **104**")
	assert.Empty(t, gen.prompts, "recommendations never call the generator")

	res, err = a.RecommendRooms(ctx, f.owner.OwnerID, RecommendInput{Budget: 500000, Capacity: 2, District: "Thu Duc"})
	require.NoError(t, err)
	assert.Empty(t, res.Recommendations)
	assert.Contains(t, res.Response, "No available room matches a budget of 500,000 VND for 2 people in Thu Duc.")
}

func TestRevenueReport(t *testing.T) {
	gen := &fakeGenerator{reply: "Report\n\n---\n\n• Revenue is steady"}
	a, f := newAssistant(t, gen)
	r, err := ParseDateRange("2024-03-01", "2024-04-30")
	require.NoError(t, err)

	res, err := a.RevenueReport(ctx, f.owner.OwnerID, r)
	require.NoError(t, err)
	assert.Equal(t, "Report\n\n- Revenue is steady", res.Report)
	assert.Equal(t, 66.67, res.PaymentRate)
	assert.Equal(t, int64(2), res.Stats.PaidInvoices)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "- Period: 2024-03-01 to 2024-04-30")
	assert.Contains(t, gen.prompts[0], "- Total revenue: 6,910,000 VND")
}

func TestCleanResponse(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain", "Hello there", "Hello there"},
		{"bullets", "* one\n• two\n  ▪ three", "- one\n- two\n  - three"},
		{"bold kept", "**Total**: 5", "**Total**: 5"},
		{"emoji", "Great news 🎉🎉 revenue is up 📈", "Great news revenue is up"},
		{"zwj sequence", "Team 👨‍👩‍👧 ready", "Team ready"},
		{"rules", "Top\n---\nBottom\n* * *\nEnd\n====", "Top\nBottom\nEnd"},
		{"blank runs", "a\n\n\n\nb\r\n\r\n\r\nc", "a\n\nb\n\nc"},
		{"trim", "\n\n  text  \n\n", "text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanResponse(tc.in))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0 VND", formatMoney(0))
	assert.Equal(t, "3,455,000 VND", formatMoney(3455000))
	assert.Equal(t, "1,000 VND", formatMoney(999.6))
}
