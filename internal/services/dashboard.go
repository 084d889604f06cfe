package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/UTurtleDev/gcl/internal/models"
	"gorm.io/gorm"
)

// PageSize is the number of companies per dashboard page.
const PageSize = 20

// Presence filters.
const (
	FilterAll               = "all"
	FilterClientOnly        = "client_only"
	FilterCollaborateurOnly = "collaborateur_only"
	FilterBoth              = "both"
	FilterNone              = "none"
)

// DefaultSort lists the most recently modified companies first.
const DefaultSort = "-date_modification"

var sortColumns = map[string]string{
	"siren":             "companies.siren",
	"nom_entreprise":    "companies.name",
	"date_creation":     "companies.created_at",
	"date_modification": "companies.updated_at",
}

const (
	clientExists = "EXISTS (SELECT 1 FROM client_questionnaires cq WHERE cq.company_siren = companies.siren)"
	collabExists = "EXISTS (SELECT 1 FROM collaborateur_questionnaires co WHERE co.company_siren = companies.siren)"
)

// Query holds the raw dashboard parameters.
type Query struct {
	Search string
	Filter string
	Sort   string
	Page   string
}

// Stats are the dashboard counters.
type Stats struct {
	Companies                   int64
	ClientQuestionnaires        int64
	CollaborateurQuestionnaires int64
}

// Page is one page of the company list.
type Page struct {
	Companies []models.Company
	Number    int
	NumPages  int
	Total     int64
	Search    string
	Filter    string
	Sort      string
}

func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool     { return p.Number < p.NumPages }
func (p Page) Previous() int     { return p.Number - 1 }
func (p Page) Next() int         { return p.Number + 1 }

// StartIndex is the 1-based position of the first row, 0 on an empty list.
func (p Page) StartIndex() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Number-1)*PageSize + 1
}

func (p Page) EndIndex() int {
	return p.StartIndex() + len(p.Companies) - 1
}

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats counts active companies and every questionnaire, archived companies included.
func (s *DashboardService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Company{}).Where("is_archived = ?", false).Count(&st.Companies).Error; err != nil {
		return st, fmt.Errorf("count companies: %w", err)
	}
	if err := db.Model(&models.ClientQuestionnaire{}).Count(&st.ClientQuestionnaires).Error; err != nil {
		return st, fmt.Errorf("count client questionnaires: %w", err)
	}
	if err := db.Model(&models.CollaborateurQuestionnaire{}).Count(&st.CollaborateurQuestionnaires).Error; err != nil {
		return st, fmt.Errorf("count collaborateur questionnaires: %w", err)
	}
	return st, nil
}

// List returns the requested page of active companies. A non-numeric page gives
// the first page and an out-of-range page gives the last one.
func (s *DashboardService) List(ctx context.Context, q Query) (Page, error) {
	search := strings.TrimSpace(q.Search)
	filter := q.Filter
	if filter == "" {
		filter = FilterAll
	}
	sort := q.Sort
	if _, ok := sortColumns[strings.TrimPrefix(sort, "-")]; !ok {
		sort = DefaultSort
	}

	base := s.filtered(s.db.WithContext(ctx).Model(&models.Company{}), search, filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page{}, fmt.Errorf("count dashboard: %w", err)
	}

	numPages := int((total + PageSize - 1) / PageSize)
	if numPages < 1 {
		numPages = 1
	}
	number := pageNumber(q.Page, numPages)

	var companies []models.Company
	err := base.Session(&gorm.Session{}).
		Preload("ClientQuestionnaire").
		Preload("CollaborateurQuestionnaire").
		Preload("CollaborateurQuestionnaire.Collaborateur").
		Order(orderClause(sort)).
		Limit(PageSize).
		Offset((number - 1) * PageSize).
		Find(&companies).Error
	if err != nil {
		return Page{}, fmt.Errorf("list dashboard: %w", err)
	}

	return Page{
		Companies: companies,
		Number:    number,
		NumPages:  numPages,
		Total:     total,
		Search:    search,
		Filter:    filter,
		Sort:      sort,
	}, nil
}

func (s *DashboardService) filtered(db *gorm.DB, search, filter string) *gorm.DB {
	db = db.Where("companies.is_archived = ?", false)
	if search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		db = db.Where(`(LOWER(companies.siren) LIKE ? ESCAPE '\' OR LOWER(companies.name) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	switch filter {
	case FilterClientOnly:
		db = db.Where(clientExists).Where("NOT " + collabExists)
	case FilterCollaborateurOnly:
		db = db.Where("NOT " + clientExists).Where(collabExists)
	case FilterBoth:
		db = db.Where(clientExists).Where(collabExists)
	case FilterNone:
		db = db.Where("NOT " + clientExists).Where("NOT " + collabExists)
	}
	return db
}

// orderClause turns a whitelisted sort key into SQL, with siren as tie-breaker.
func orderClause(sort string) string {
	dir := "ASC"
	key := sort
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		key = sort[1:]
	}
	col := sortColumns[key]
	if key == "siren" {
		return col + " " + dir
	}
	return col + " " + dir + ", companies.siren ASC"
}

func pageNumber(raw string, numPages int) int {
	if strings.TrimSpace(raw) == "" {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
