package sla

import "github.com/spec-kit/servicedesk/internal/domain"

// Scope is the ticket context a plan is matched against.
type Scope struct {
	ContractID *string
	CategoryID *string
	Priority   *domain.TicketPriority
}

const disqualified = -1

// SelectPlan picks the best-matching plan from candidates, which must be
// active plans of the ticket's company in a deterministic order (plan id
// ascending). Matching is most-specific-wins: a plan field that is set and
// matches scores (contract 4, category 2, priority 1), a plan field that is
// set and mismatches disqualifies the plan outright, an unset field is
// neutral. Ties keep the first candidate encountered. Returns nil when no
// candidate qualifies.
func SelectPlan(candidates []domain.SLAPlan, scope Scope) *domain.SLAPlan {
	var best *domain.SLAPlan
	bestScore := disqualified
	for i := range candidates {
		sc := matchScore(&candidates[i], scope)
		if sc > bestScore {
			best = &candidates[i]
			bestScore = sc
		}
	}
	return best
}

func matchScore(p *domain.SLAPlan, scope Scope) int {
	score := 0
	if p.ContractID != nil {
		if scope.ContractID == nil || *p.ContractID != *scope.ContractID {
			return disqualified
		}
		score += 4
	}
	if p.CategoryID != nil {
		if scope.CategoryID == nil || *p.CategoryID != *scope.CategoryID {
			return disqualified
		}
		score += 2
	}
	if p.Priority != nil {
		if scope.Priority == nil || *p.Priority != *scope.Priority {
			return disqualified
		}
		score++
	}
	return score
}
