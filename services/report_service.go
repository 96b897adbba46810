package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report types accepted by GenerateReport.
const (
	ReportRevenue   = "revenue"
	ReportOccupancy = "occupancy"
	ReportTenant    = "tenant"
)

const invoiceTotalSQL = "invoices.price + invoices.water_price + invoices.internet_price + invoices.general_price + invoices.electricity_price"

// ReportService computes owner-scoped aggregates. Every figure defaults to
// zero when nothing matches.
type ReportService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db, now: time.Now}
}

// percent is part/total*100 rounded to two decimals, and 0 when total is 0.
func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

// OccupancyRate is the share of occupied rooms in percent; an empty portfolio is 0% occupied.
func OccupancyRate(occupied, total int64) float64 {
	return percent(occupied, total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange validates "YYYY-MM-DD" bounds.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := utils.ParseDate(start)
	if err != nil {
		return DateRange{}, invalidf("start_date: %v", err)
	}
	e, err := utils.ParseDate(end)
	if err != nil {
		return DateRange{}, invalidf("end_date: %v", err)
	}
	if e.Before(s) {
		return DateRange{}, invalidf("end_date must not be before start_date")
	}
	return DateRange{Start: s, End: e}, nil
}

// endExclusive is midnight after the last day of the range.
func (r DateRange) endExclusive() time.Time {
	return r.End.AddDate(0, 0, 1)
}

type RevenueStats struct {
	TotalRevenue      float64 `json:"total_revenue"`
	PaidInvoices      int64   `json:"paid_invoices"`
	PendingInvoices   int64   `json:"pending_invoices"`
	AvgMonthlyRevenue float64 `json:"avg_monthly_revenue"`
}

type MonthlyRevenue struct {
	Month        string  `json:"month"`
	InvoiceCount int64   `json:"invoice_count"`
	Revenue      float64 `json:"revenue"`
}

// paidIn limits invoices to the caller's paid inside r.
func paidIn(ownerID uint, r DateRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(ownedInvoices(ownerID)).
			Where("invoices.is_paid = ? AND invoices.payment_date >= ? AND invoices.payment_date < ?", true, r.Start, r.endExclusive())
	}
}

// paidInRange loads the caller's invoices paid inside r.
func (s *ReportService) paidInRange(db *gorm.DB, ownerID uint, r DateRange) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := db.Scopes(paidIn(ownerID, r)).Order("invoices.payment_date").Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load paid invoices: %w", err)
	}
	return invoices, nil
}

type paidTotals struct {
	PaidCount int64
	Revenue   float64
}

func (s *ReportService) paidTotalsInRange(db *gorm.DB, ownerID uint, r DateRange) (paidTotals, error) {
	var row paidTotals
	err := db.Model(&models.Invoice{}).Scopes(paidIn(ownerID, r)).
		Select("COUNT(*) AS paid_count, COALESCE(SUM(" + invoiceTotalSQL + "), 0) AS revenue").
		Scan(&row).Error
	if err != nil {
		return paidTotals{}, fmt.Errorf("failed to sum paid invoices: %w", err)
	}
	row.Revenue = round2(row.Revenue)
	return row, nil
}

// paidMonths counts the distinct months with at least one payment inside r.
func (s *ReportService) paidMonths(db *gorm.DB, ownerID uint, r DateRange) (int, error) {
	var dates []time.Time
	err := db.Model(&models.Invoice{}).Scopes(paidIn(ownerID, r)).
		Pluck("invoices.payment_date", &dates).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load payment dates: %w", err)
	}
	months := map[string]struct{}{}
	for _, d := range dates {
		months[d.UTC().Format("2006-01")] = struct{}{}
	}
	return len(months), nil
}

func monthlyRevenue(invoices []models.Invoice) []MonthlyRevenue {
	byMonth := map[string]*MonthlyRevenue{}
	for _, inv := range invoices {
		if inv.PaymentDate == nil {
			continue
		}
		key := inv.PaymentDate.UTC().Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyRevenue{Month: key}
			byMonth[key] = m
		}
		m.InvoiceCount++
		m.Revenue += inv.Total()
	}
	out := make([]MonthlyRevenue, 0, len(byMonth))
	for _, m := range byMonth {
		m.Revenue = round2(m.Revenue)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// RevenueStats sums paid invoices by payment date and counts unpaid
// invoices falling due inside the range. The monthly average is taken over
// months that had at least one payment.
func (s *ReportService) RevenueStats(ctx context.Context, ownerID uint, r DateRange) (*RevenueStats, error) {
	db := s.DB.WithContext(ctx)
	totals, err := s.paidTotalsInRange(db, ownerID, r)
	if err != nil {
		return nil, err
	}
	months, err := s.paidMonths(db, ownerID, r)
	if err != nil {
		return nil, err
	}

	stats := &RevenueStats{TotalRevenue: totals.Revenue, PaidInvoices: totals.PaidCount}
	if months > 0 {
		stats.AvgMonthlyRevenue = round2(stats.TotalRevenue / float64(months))
	}

	err = db.Model(&models.Invoice{}).Scopes(ownedInvoices(ownerID)).
		Where("invoices.is_paid = ? AND invoices.due_date >= ? AND invoices.due_date <= ?", false, r.Start, r.End).
		Count(&stats.PendingInvoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending invoices: %w", err)
	}
	return stats, nil
}

type HouseOccupancy struct {
	HouseID       uint    `json:"house_id"`
	HouseName     string  `json:"house_name"`
	TotalRooms    int64   `json:"total_rooms"`
	OccupiedRooms int64   `json:"occupied_rooms"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

func (s *ReportService) occupancyByHouse(db *gorm.DB, ownerID uint) ([]HouseOccupancy, error) {
	var rows []HouseOccupancy
	err := db.Table("houses").
		Select("houses.house_id AS house_id, houses.name AS house_name, "+
			"COUNT(rooms.room_id) AS total_rooms, "+
			"COALESCE(SUM(CASE WHEN rooms.is_available = ? THEN 1 ELSE 0 END), 0) AS occupied_rooms", false).
		Joins("LEFT JOIN rooms ON rooms.house_id = houses.house_id").
		Where("houses.owner_id = ?", ownerID).
		Group("houses.house_id, houses.name").
		Order("houses.house_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute occupancy: %w", err)
	}
	for i := range rows {
		rows[i].OccupancyRate = OccupancyRate(rows[i].OccupiedRooms, rows[i].TotalRooms)
	}
	return rows, nil
}

type TenantRow struct {
	RRID            uint           `gorm:"column:rr_id" json:"rr_id"`
	TenantName      string         `json:"tenant_name"`
	TenantPhone     string         `json:"tenant_phone"`
	NumberOfTenants int            `json:"number_of_tenants"`
	RoomName        string         `json:"room_name"`
	HouseName       string         `json:"house_name"`
	StartDate       datatypes.Date `json:"start_date"`
	EndDate         datatypes.Date `json:"end_date"`
	MonthlyRent     float64        `json:"monthly_rent"`
	IsActive        bool           `json:"is_active"`
}

// tenantsInRange lists contracts whose period overlaps r.
func (s *ReportService) tenantsInRange(db *gorm.DB, ownerID uint, r DateRange) ([]TenantRow, error) {
	var rows []TenantRow
	err := db.Table("rented_rooms").
		Select("rented_rooms.rr_id AS rr_id, rented_rooms.tenant_name AS tenant_name, "+
			"rented_rooms.tenant_phone AS tenant_phone, rented_rooms.number_of_tenants AS number_of_tenants, "+
			"rooms.name AS room_name, houses.name AS house_name, "+
			"rented_rooms.start_date AS start_date, rented_rooms.end_date AS end_date, "+
			"rented_rooms.monthly_rent AS monthly_rent, rented_rooms.is_active AS is_active").
		Scopes(ownedRentedRooms(ownerID)).
		Where("rented_rooms.start_date <= ? AND rented_rooms.end_date >= ?", r.End, r.Start).
		Order("rented_rooms.start_date, rented_rooms.rr_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return rows, nil
}

type Report struct {
	ReportType string      `json:"report_type"`
	StartDate  string      `json:"start_date"`
	EndDate    string      `json:"end_date"`
	Data       interface{} `json:"data"`
}

// GenerateReport builds a revenue, occupancy or tenant report.
func (s *ReportService) GenerateReport(ctx context.Context, ownerID uint, reportType string, r DateRange) (*Report, error) {
	db := s.DB.WithContext(ctx)
	report := &Report{
		ReportType: strings.ToLower(reportType),
		StartDate:  r.Start.Format(utils.DateLayout),
		EndDate:    r.End.Format(utils.DateLayout),
	}

	switch report.ReportType {
	case ReportRevenue:
		paid, err := s.paidInRange(db, ownerID, r)
		if err != nil {
			return nil, err
		}
		report.Data = monthlyRevenue(paid)
	case ReportOccupancy:
		rows, err := s.occupancyByHouse(db, ownerID)
		if err != nil {
			return nil, err
		}
		report.Data = rows
	case ReportTenant:
		rows, err := s.tenantsInRange(db, ownerID, r)
		if err != nil {
			return nil, err
		}
		report.Data = rows
	default:
		return nil, invalidf("invalid report type %q, expected revenue, occupancy or tenant", reportType)
	}
	return report, nil
}

type ExpiringContract struct {
	RRID          uint      `json:"rr_id"`
	TenantName    string    `json:"tenant_name"`
	TenantPhone   string    `json:"tenant_phone"`
	RoomName      string    `json:"room_name"`
	HouseName     string    `json:"house_name"`
	EndDate       time.Time `json:"end_date"`
	DaysRemaining int       `json:"days_remaining"`
}

type expiringRow struct {
	RRID        uint `gorm:"column:rr_id"`
	TenantName  string
	TenantPhone string
	RoomName    string
	HouseName   string
	EndDate     datatypes.Date
}

// ExpiringContracts lists active contracts ending after today and within the next days days.
func (s *ReportService) ExpiringContracts(ctx context.Context, ownerID uint, days int) ([]ExpiringContract, error) {
	if days <= 0 {
		return nil, invalidf("days must be positive")
	}
	today := utils.DateOnly(s.now())
	horizon := today.AddDate(0, 0, days)

	var rows []expiringRow
	err := s.DB.WithContext(ctx).Table("rented_rooms").
		Select("rented_rooms.rr_id AS rr_id, rented_rooms.tenant_name AS tenant_name, "+
			"rented_rooms.tenant_phone AS tenant_phone, rooms.name AS room_name, "+
			"houses.name AS house_name, rented_rooms.end_date AS end_date").
		Scopes(ownedRentedRooms(ownerID)).
		Where("rented_rooms.is_active = ? AND rented_rooms.end_date > ? AND rented_rooms.end_date <= ?", true, today, horizon).
		Order("rented_rooms.end_date, rented_rooms.rr_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring contracts: %w", err)
	}

	out := make([]ExpiringContract, 0, len(rows))
	for _, row := range rows {
		end := utils.DateOnly(time.Time(row.EndDate))
		out = append(out, ExpiringContract{
			RRID:          row.RRID,
			TenantName:    row.TenantName,
			TenantPhone:   row.TenantPhone,
			RoomName:      row.RoomName,
			HouseName:     row.HouseName,
			EndDate:       end,
			DaysRemaining: int(end.Sub(today).Hours() / 24),
		})
	}
	return out, nil
}

type Overview struct {
	TotalHouses         int64   `json:"total_houses"`
	TotalRooms          int64   `json:"total_rooms"`
	AvailableRooms      int64   `json:"available_rooms"`
	OccupiedRooms       int64   `json:"occupied_rooms"`
	OccupancyRate       float64 `json:"occupancy_rate"`
	ActiveContracts     int64   `json:"active_contracts"`
	PendingInvoices     int64   `json:"pending_invoices"`
	CurrentMonthRevenue float64 `json:"current_month_revenue"`
}

// SystemOverview is the caller's dashboard snapshot.
func (s *ReportService) SystemOverview(ctx context.Context, ownerID uint) (*Overview, error) {
	db := s.DB.WithContext(ctx)
	o := &Overview{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&o.TotalHouses, db.Model(&models.House{}).Scopes(ownedHouses(ownerID))},
		{&o.TotalRooms, db.Model(&models.Room{}).Scopes(ownedRooms(ownerID))},
		{&o.AvailableRooms, db.Model(&models.Room{}).Scopes(ownedRooms(ownerID)).Where("rooms.is_available = ?", true)},
		{&o.ActiveContracts, db.Model(&models.RentedRoom{}).Scopes(ownedRentedRooms(ownerID)).Where("rented_rooms.is_active = ?", true)},
		{&o.PendingInvoices, db.Model(&models.Invoice{}).Scopes(ownedInvoices(ownerID)).Where("invoices.is_paid = ?", false)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to compute overview: %w", err)
		}
	}
	o.OccupiedRooms = o.TotalRooms - o.AvailableRooms
	o.OccupancyRate = OccupancyRate(o.OccupiedRooms, o.TotalRooms)

	monthStart := utils.MonthStart(s.now())
	month := DateRange{Start: monthStart, End: monthStart.AddDate(0, 1, -1)}
	totals, err := s.paidTotalsInRange(db, ownerID, month)
	if err != nil {
		return nil, err
	}
	o.CurrentMonthRevenue = totals.Revenue
	return o, nil
}

type PendingSummary struct {
	Count        int64   `json:"count"`
	TotalAmount  float64 `json:"total_amount"`
	OverdueCount int64   `json:"overdue_count"`
}

// PendingInvoices summarises the caller's unpaid invoices.
func (s *ReportService) PendingInvoices(ctx context.Context, ownerID uint) (*PendingSummary, error) {
	db := s.DB.WithContext(ctx)
	var row struct {
		PendingCount int64
		TotalAmount  float64
	}
	err := db.Model(&models.Invoice{}).Scopes(ownedInvoices(ownerID)).
		Select("COUNT(*) AS pending_count, COALESCE(SUM("+invoiceTotalSQL+"), 0) AS total_amount").
		Where("invoices.is_paid = ?", false).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarise pending invoices: %w", err)
	}

	summary := &PendingSummary{Count: row.PendingCount, TotalAmount: round2(row.TotalAmount)}
	err = db.Model(&models.Invoice{}).Scopes(ownedInvoices(ownerID)).
		Where("invoices.is_paid = ? AND invoices.due_date < ?", false, utils.DateOnly(s.now())).
		Count(&summary.OverdueCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue invoices: %w", err)
	}
	return summary, nil
}

// RoomSearch filters available rooms. Nil bounds are open.
type RoomSearch struct {
	MinPrice    *float64 `json:"min_price" binding:"omitempty,gte=0"`
	MaxPrice    *float64 `json:"max_price" binding:"omitempty,gte=0"`
	MinCapacity *int     `json:"min_capacity" binding:"omitempty,gte=0"`
	MaxCapacity *int     `json:"max_capacity" binding:"omitempty,gte=0"`
	District    string   `json:"district"`
	Limit       int      `json:"limit" binding:"omitempty,gte=0"`
}

type RoomMatch struct {
	RoomID      uint    `json:"room_id"`
	Name        string  `json:"name"`
	Capacity    int     `json:"capacity"`
	Price       float64 `json:"price"`
	FloorNumber int     `json:"floor_number"`
	HouseID     uint    `json:"house_id"`
	HouseName   string  `json:"house_name"`
	District    string  `json:"district"`
	AddressLine string  `json:"address_line"`
	AssetCount  int64   `json:"asset_count"`
}

// SearchRooms finds the caller's available rooms matching q, cheapest first.
func (s *ReportService) SearchRooms(ctx context.Context, ownerID uint, q RoomSearch) ([]RoomMatch, error) {
	query := s.DB.WithContext(ctx).Table("rooms").
		Select("rooms.room_id AS room_id, rooms.name AS name, rooms.capacity AS capacity, "+
			"rooms.price AS price, rooms.floor_number AS floor_number, houses.house_id AS house_id, "+
			"houses.name AS house_name, houses.district AS district, houses.address_line AS address_line, "+
			"(SELECT COUNT(*) FROM assets WHERE assets.room_id = rooms.room_id) AS asset_count").
		Scopes(ownedRooms(ownerID)).
		Where("rooms.is_available = ?", true)
	if q.MinPrice != nil {
		query = query.Where("rooms.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("rooms.price <= ?", *q.MaxPrice)
	}
	if q.MinCapacity != nil {
		query = query.Where("rooms.capacity >= ?", *q.MinCapacity)
	}
	if q.MaxCapacity != nil {
		query = query.Where("rooms.capacity <= ?", *q.MaxCapacity)
	}
	if d := strings.TrimSpace(q.District); d != "" {
		query = query.Where("LOWER(houses.district) LIKE ?", "%"+strings.ToLower(d)+"%")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var rooms []RoomMatch
	if err := query.Order("rooms.price, rooms.room_id").Scan(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to search rooms: %w", err)
	}
	return rooms, nil
}

type SystemStatistics struct {
	TotalOwners     int64   `json:"total_owners"`
	ActiveOwners    int64   `json:"active_owners"`
	InactiveOwners  int64   `json:"inactive_owners"`
	TotalHouses     int64   `json:"total_houses"`
	TotalRooms      int64   `json:"total_rooms"`
	AvailableRooms  int64   `json:"available_rooms"`
	OccupiedRooms   int64   `json:"occupied_rooms"`
	ActiveContracts int64   `json:"active_contracts"`
	TotalInvoices   int64   `json:"total_invoices"`
	PendingInvoices int64   `json:"pending_invoices"`
	TotalRevenue    float64 `json:"total_revenue"`
	OccupancyRate   float64 `json:"occupancy_rate"`
}

// AdminStatistics aggregates across every owner. Admin only.
func (s *ReportService) AdminStatistics(ctx context.Context) (*SystemStatistics, error) {
	db := s.DB.WithContext(ctx)
	st := &SystemStatistics{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&st.TotalOwners, db.Model(&models.User{}).Scopes(owners)},
		{&st.ActiveOwners, db.Model(&models.User{}).Scopes(owners).Where("users.is_active = ?", true)},
		{&st.TotalHouses, db.Model(&models.House{})},
		{&st.TotalRooms, db.Model(&models.Room{})},
		{&st.AvailableRooms, db.Model(&models.Room{}).Where("is_available = ?", true)},
		{&st.ActiveContracts, db.Model(&models.RentedRoom{}).Where("is_active = ?", true)},
		{&st.TotalInvoices, db.Model(&models.Invoice{})},
		{&st.PendingInvoices, db.Model(&models.Invoice{}).Where("is_paid = ?", false)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to compute statistics: %w", err)
		}
	}
	st.InactiveOwners = st.TotalOwners - st.ActiveOwners
	st.OccupiedRooms = st.TotalRooms - st.AvailableRooms
	st.OccupancyRate = OccupancyRate(st.OccupiedRooms, st.TotalRooms)

	var revenue struct{ Total float64 }
	err := db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(" + invoiceTotalSQL + "), 0) AS total").
		Where("invoices.is_paid = ?", true).
		Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}
	st.TotalRevenue = round2(revenue.Total)
	return st, nil
}
