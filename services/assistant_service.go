package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"rental-backend/llm"
)

const availableRoomsInPrompt = 5

// AssistantService answers owner questions with the help of a text
// generator. Failures of the generator never surface as errors; the caller
// receives a readable fallback message instead.
type AssistantService struct {
	Reports   *ReportService
	Rooms     *RoomService
	Generator llm.Generator
	now       func() time.Time
}

func NewAssistantService(reports *ReportService, rooms *RoomService, gen llm.Generator) *AssistantService {
	if gen == nil {
		gen = llm.Unconfigured{}
	}
	return &AssistantService{Reports: reports, Rooms: rooms, Generator: gen, now: time.Now}
}

type ChatInput struct {
	Message                string `json:"message" binding:"required"`
	IncludeStats           bool   `json:"include_stats"`
	IncludeAvailableRooms  bool   `json:"include_available_rooms"`
	IncludePendingInvoices bool   `json:"include_pending_invoices"`
}

type ChatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

func fallbackMessage(err error) string {
	if errors.Is(err, llm.ErrNotConfigured) {
		return "Sorry, the AI assistant is not configured on this server. Please contact the administrator."
	}
	return "Sorry, the AI assistant could not answer right now. Please try again in a moment."
}

func (s *AssistantService) generate(ctx context.Context, prompt string) string {
	text, err := s.Generator.Generate(ctx, prompt)
	if err != nil {
		slog.WarnContext(ctx, "ai generation failed", "error", err)
		return fallbackMessage(err)
	}
	return CleanResponse(text)
}

// Chat answers a free-text question, splicing in the data sections the caller asked for.
func (s *AssistantService) Chat(ctx context.Context, ownerID uint, in ChatInput) (*ChatResponse, error) {
	question := strings.TrimSpace(in.Message)
	if question == "" {
		return nil, invalidf("message is required")
	}

	pc := chatContext{Question: question}
	if in.IncludeStats {
		overview, err := s.Reports.SystemOverview(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		pc.Overview = overview
	}
	if in.IncludeAvailableRooms {
		rooms, err := s.Rooms.ListAvailable(ctx, ownerID, 0, 0, availableRoomsInPrompt)
		if err != nil {
			return nil, err
		}
		pc.AvailableRooms = rooms
	}
	if in.IncludePendingInvoices {
		pending, err := s.Reports.PendingInvoices(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		pc.Pending = pending
	}

	return &ChatResponse{
		Response:  s.generate(ctx, buildChatPrompt(pc)),
		Timestamp: s.now().UTC(),
	}, nil
}

type RecommendInput struct {
	Budget   float64 `json:"budget" binding:"required,gt=0"`
	Capacity int     `json:"capacity" binding:"required,gte=1"`
	District string  `json:"district"`
}

type RecommendResponse struct {
	Recommendations []RoomMatch `json:"recommendations"`
	Response        string      `json:"response"`
	Timestamp       time.Time   `json:"timestamp"`
}

const maxRecommendations = 3

// RecommendRooms picks up to three available rooms priced within 20% of the
// budget that fit the party size (or one more), closest price first. It is
// answered from the database alone.
func (s *AssistantService) RecommendRooms(ctx context.Context, ownerID uint, in RecommendInput) (*RecommendResponse, error) {
	minPrice, maxPrice := in.Budget*0.8, in.Budget*1.2
	minCap, maxCap := in.Capacity, in.Capacity+1
	matches, err := s.Reports.SearchRooms(ctx, ownerID, RoomSearch{
		MinPrice:    &minPrice,
		MaxPrice:    &maxPrice,
		MinCapacity: &minCap,
		MaxCapacity: &maxCap,
		District:    in.District,
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		di, dj := math.Abs(matches[i].Price-in.Budget), math.Abs(matches[j].Price-in.Budget)
		if di != dj {
			return di < dj
		}
		return matches[i].Price < matches[j].Price
	})
	if len(matches) > maxRecommendations {
		matches = matches[:maxRecommendations]
	}

	return &RecommendResponse{
		Recommendations: matches,
		Response:        describeRecommendations(in, matches),
		Timestamp:       s.now().UTC(),
	}, nil
}

func describeRecommendations(in RecommendInput, matches []RoomMatch) string {
	var b strings.Builder
	if len(matches) == 0 {
		fmt.Fprintf(&b, "No available room matches a budget of %s for %d people", formatMoney(in.Budget), in.Capacity)
		if in.District != "" {
			fmt.Fprintf(&b, " in %s", in.District)
		}
		b.WriteString(". Try widening the budget or the district.")
		return b.String()
	}
	fmt.Fprintf(&b, "Recommended rooms for %d people around %s:\n", in.Capacity, formatMoney(in.Budget))
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. **%s** in %s", i+1, m.Name, m.HouseName)
		if m.District != "" {
			fmt.Fprintf(&b, " (%s)", m.District)
		}
		fmt.Fprintf(&b, "\n- Price: %s per month\n- Capacity: %d people\n- Assets: %d\n", formatMoney(m.Price), m.Capacity, m.AssetCount)
	}
	return strings.TrimSpace(b.String())
}

type RevenueReportResponse struct {
	Report      string        `json:"report"`
	Stats       *RevenueStats `json:"stats"`
	PaymentRate float64       `json:"payment_rate"`
	Timestamp   time.Time     `json:"timestamp"`
}

// RevenueReport asks the generator to narrate the revenue figures of a period.
func (s *AssistantService) RevenueReport(ctx context.Context, ownerID uint, r DateRange) (*RevenueReportResponse, error) {
	stats, err := s.Reports.RevenueStats(ctx, ownerID, r)
	if err != nil {
		return nil, err
	}
	rate := percent(stats.PaidInvoices, stats.PaidInvoices+stats.PendingInvoices)

	return &RevenueReportResponse{
		Report:      s.generate(ctx, buildRevenuePrompt(r, stats, rate)),
		Stats:       stats,
		PaymentRate: rate,
		Timestamp:   s.now().UTC(),
	}, nil
}
