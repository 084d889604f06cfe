package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/UTurtleDev/gcl/internal/models"
	"gorm.io/gorm"
)

// seedDashboard creates four companies, one per presence combination, plus an archived one.
func seedDashboard(t *testing.T, db *gorm.DB) {
	t.Helper()
	staff := seedStaff(t, db, "collab@example.com")
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := []struct {
		siren, name    string
		client, collab bool
		archived       bool
	}{
		{"111111111", "Alpha", true, false, false},
		{"222222222", "Beta_Conseil", false, true, false},
		{"333333333", "Gamma", true, true, false},
		{"444444444", "Delta 100%", false, false, false},
		{"555555555", "Archived", true, true, true},
	}
	for i, r := range rows {
		c := models.Company{SIREN: r.siren, Name: r.name, IsArchived: r.archived,
			CreatedAt: base.Add(time.Duration(i) * time.Hour), UpdatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed company: %v", err)
		}
		if r.client {
			if err := db.Create(&models.ClientQuestionnaire{CompanySIREN: r.siren, GestionFuture: "delegate"}).Error; err != nil {
				t.Fatalf("seed client: %v", err)
			}
		}
		if r.collab {
			if err := db.Create(&models.CollaborateurQuestionnaire{CompanySIREN: r.siren, CollaborateurID: staff.ID}).Error; err != nil {
				t.Fatalf("seed collab: %v", err)
			}
		}
	}
}

func sirens(p Page) []string {
	out := make([]string, len(p.Companies))
	for i, c := range p.Companies {
		out[i] = c.SIREN
	}
	return out
}

func TestDashboardFiltersPartitionActiveCompanies(t *testing.T) {
	db := setupTestDB(t)
	seedDashboard(t, db)
	svc := NewDashboardService(db)
	ctx := context.Background()

	all, err := svc.List(ctx, Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Total != 4 {
		t.Fatalf("expected 4 active companies got %d", all.Total)
	}

	seen := map[string]string{}
	for _, f := range []string{FilterClientOnly, FilterCollaborateurOnly, FilterBoth, FilterNone} {
		p, err := svc.List(ctx, Query{Filter: f})
		if err != nil {
			t.Fatalf("list %s: %v", f, err)
		}
		if p.Total != 1 {
			t.Fatalf("filter %s: expected 1 company got %v", f, sirens(p))
		}
		for _, s := range sirens(p) {
			if prev, dup := seen[s]; dup {
				t.Fatalf("%s matched by both %s and %s", s, prev, f)
			}
			seen[s] = f
		}
	}
	if len(seen) != 4 {
		t.Fatalf("filters should cover every active company, got %v", seen)
	}
	if seen["333333333"] != FilterBoth || seen["444444444"] != FilterNone {
		t.Fatalf("unexpected partition %v", seen)
	}
}

func TestDashboardUnknownFilterBehavesAsAll(t *testing.T) {
	db := setupTestDB(t)
	seedDashboard(t, db)
	p, err := NewDashboardService(db).List(context.Background(), Query{Filter: "bogus"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if p.Total != 4 {
		t.Fatalf("expected 4 got %d", p.Total)
	}
}

func TestDashboardSearch(t *testing.T) {
	db := setupTestDB(t)
	seedDashboard(t, db)
	svc := NewDashboardService(db)
	cases := []struct {
		search string
		want   []string
	}{
		{"alpha", []string{"111111111"}},
		{"3333", []string{"333333333"}},
		{"_", []string{"222222222"}},
		{"%", []string{"444444444"}},
		{"archived", nil},
	}
	for _, tc := range cases {
		t.Run(tc.search, func(t *testing.T) {
			p, err := svc.List(context.Background(), Query{Search: tc.search})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			got := sirens(p)
			if fmt.Sprint(got) != fmt.Sprint(tc.want) && !(len(got) == 0 && len(tc.want) == 0) {
				t.Fatalf("search %q: got %v want %v", tc.search, got, tc.want)
			}
		})
	}
}

func TestDashboardSort(t *testing.T) {
	db := setupTestDB(t)
	seedDashboard(t, db)
	svc := NewDashboardService(db)
	cases := []struct {
		sort     string
		wantSort string
		first    string
	}{
		{"", DefaultSort, "444444444"},
		{"siren", "siren", "111111111"},
		{"-siren", "-siren", "444444444"},
		{"nom_entreprise", "nom_entreprise", "111111111"},
		{"-nom_entreprise", "-nom_entreprise", "333333333"},
		{"date_creation", "date_creation", "111111111"},
		{"name; DROP TABLE companies", DefaultSort, "444444444"},
	}
	for _, tc := range cases {
		p, err := svc.List(context.Background(), Query{Sort: tc.sort})
		if err != nil {
			t.Fatalf("sort %q: %v", tc.sort, err)
		}
		if p.Sort != tc.wantSort {
			t.Fatalf("sort %q normalised to %q, want %q", tc.sort, p.Sort, tc.wantSort)
		}
		if p.Companies[0].SIREN != tc.first {
			t.Fatalf("sort %q: first = %s want %s", tc.sort, p.Companies[0].SIREN, tc.first)
		}
	}
}

func TestDashboardPagination(t *testing.T) {
	db := setupTestDB(t)
	for i := 0; i < 45; i++ {
		c := models.Company{SIREN: fmt.Sprintf("%09d", 100000000+i), Name: fmt.Sprintf("Co %02d", i)}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	svc := NewDashboardService(db)
	cases := []struct {
		page   string
		number int
		size   int
	}{
		{"", 1, 20},
		{"2", 2, 20},
		{"3", 3, 5},
		{"99", 3, 5},
		{"0", 3, 5},
		{"-1", 3, 5},
		{"abc", 1, 20},
	}
	for _, tc := range cases {
		p, err := svc.List(context.Background(), Query{Page: tc.page})
		if err != nil {
			t.Fatalf("page %q: %v", tc.page, err)
		}
		if p.Number != tc.number || len(p.Companies) != tc.size || p.NumPages != 3 {
			t.Fatalf("page %q: number=%d size=%d pages=%d", tc.page, p.Number, len(p.Companies), p.NumPages)
		}
	}
}

func TestDashboardEmpty(t *testing.T) {
	db := setupTestDB(t)
	p, err := NewDashboardService(db).List(context.Background(), Query{Page: "5"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if p.Number != 1 || p.NumPages != 1 || len(p.Companies) != 0 || p.StartIndex() != 0 {
		t.Fatalf("unexpected empty page %+v", p)
	}
}

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	seedDashboard(t, db)
	st, err := NewDashboardService(db).Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	// Questionnaire counters include the archived company.
	if st.Companies != 4 || st.ClientQuestionnaires != 3 || st.CollaborateurQuestionnaires != 3 {
		t.Fatalf("unexpected stats %+v", st)
	}
}
