package sla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
)

func strPtr(s string) *string { return &s }

func priPtr(p domain.TicketPriority) *domain.TicketPriority { return &p }

func plan(id string, contract, category *string, priority *domain.TicketPriority) domain.SLAPlan {
	return domain.SLAPlan{
		ID:                   id,
		CompanyID:            "co-1",
		Name:                 "plan-" + id,
		FirstResponseMinutes: 60,
		ResolutionMinutes:    1440,
		ContractID:           contract,
		CategoryID:           category,
		Priority:             priority,
		Active:               true,
	}
}

func TestSelectPlan_MostSpecificWins(t *testing.T) {
	candidates := []domain.SLAPlan{
		plan("1", nil, nil, nil),
		plan("2", nil, nil, priPtr(domain.TicketPriorityHigh)),
		plan("3", nil, strPtr("cat-1"), nil),
		plan("4", strPtr("ct-1"), nil, nil),
		plan("5", strPtr("ct-1"), strPtr("cat-1"), priPtr(domain.TicketPriorityHigh)),
	}
	scope := Scope{
		ContractID: strPtr("ct-1"),
		CategoryID: strPtr("cat-1"),
		Priority:   priPtr(domain.TicketPriorityHigh),
	}

	selected := SelectPlan(candidates, scope)

	require.NotNil(t, selected)
	assert.Equal(t, "5", selected.ID)
}

func TestSelectPlan_SetMismatchDisqualifies(t *testing.T) {
	tests := []struct {
		name       string
		candidates []domain.SLAPlan
		scope      Scope
		wantID     string
		wantNil    bool
	}{
		{
			name: "contract mismatch excluded despite other matches",
			candidates: []domain.SLAPlan{
				plan("1", strPtr("ct-other"), strPtr("cat-1"), priPtr(domain.TicketPriorityHigh)),
				plan("2", nil, nil, nil),
			},
			scope:  Scope{ContractID: strPtr("ct-1"), CategoryID: strPtr("cat-1"), Priority: priPtr(domain.TicketPriorityHigh)},
			wantID: "2",
		},
		{
			name: "plan scoped to contract disqualified when ticket has none",
			candidates: []domain.SLAPlan{
				plan("1", strPtr("ct-1"), nil, nil),
			},
			scope:   Scope{},
			wantNil: true,
		},
		{
			name: "plan scoped to priority disqualified on different priority",
			candidates: []domain.SLAPlan{
				plan("1", nil, nil, priPtr(domain.TicketPriorityCritical)),
			},
			scope:   Scope{Priority: priPtr(domain.TicketPriorityLow)},
			wantNil: true,
		},
		{
			name: "category mismatch loses to priority match",
			candidates: []domain.SLAPlan{
				plan("1", nil, strPtr("cat-other"), nil),
				plan("2", nil, nil, priPtr(domain.TicketPriorityMedium)),
			},
			scope:  Scope{CategoryID: strPtr("cat-1"), Priority: priPtr(domain.TicketPriorityMedium)},
			wantID: "2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := SelectPlan(tt.candidates, tt.scope)
			if tt.wantNil {
				assert.Nil(t, selected)
				return
			}
			require.NotNil(t, selected)
			assert.Equal(t, tt.wantID, selected.ID)
		})
	}
}

func TestSelectPlan_UnscopedPlanMatchesAnything(t *testing.T) {
	candidates := []domain.SLAPlan{plan("1", nil, nil, nil)}

	selected := SelectPlan(candidates, Scope{})

	require.NotNil(t, selected)
	assert.Equal(t, "1", selected.ID)
}

func TestSelectPlan_TieKeepsFirstCandidate(t *testing.T) {
	// Two plans scoped identically; the catalog fetch order (plan id
	// ascending) decides the winner.
	candidates := []domain.SLAPlan{
		plan("1", nil, nil, priPtr(domain.TicketPriorityHigh)),
		plan("2", nil, nil, priPtr(domain.TicketPriorityHigh)),
	}

	selected := SelectPlan(candidates, Scope{Priority: priPtr(domain.TicketPriorityHigh)})

	require.NotNil(t, selected)
	assert.Equal(t, "1", selected.ID)
}

func TestSelectPlan_NoCandidates(t *testing.T) {
	assert.Nil(t, SelectPlan(nil, Scope{}))
}

func TestSelectPlan_NeverReturnsConflictingPlan(t *testing.T) {
	// Exhaustive check over scope combinations: the selected plan never has
	// a set field conflicting with the requested scope.
	contracts := []*string{nil, strPtr("ct-1"), strPtr("ct-2")}
	categories := []*string{nil, strPtr("cat-1"), strPtr("cat-2")}
	priorities := []*domain.TicketPriority{nil, priPtr(domain.TicketPriorityLow), priPtr(domain.TicketPriorityHigh)}

	var candidates []domain.SLAPlan
	id := 0
	for _, ct := range contracts {
		for _, cat := range categories {
			for _, pr := range priorities {
				id++
				candidates = append(candidates, plan(string(rune('a'+id)), ct, cat, pr))
			}
		}
	}

	for _, ct := range contracts[1:] {
		for _, cat := range categories[1:] {
			for _, pr := range priorities[1:] {
				scope := Scope{ContractID: ct, CategoryID: cat, Priority: pr}
				selected := SelectPlan(candidates, scope)
				require.NotNil(t, selected)
				if selected.ContractID != nil {
					assert.Equal(t, *ct, *selected.ContractID)
				}
				if selected.CategoryID != nil {
					assert.Equal(t, *cat, *selected.CategoryID)
				}
				if selected.Priority != nil {
					assert.Equal(t, *pr, *selected.Priority)
				}
			}
		}
	}
}
