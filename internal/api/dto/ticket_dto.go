package dto

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	ContractID  *string               `json:"contract_id"`
	CategoryID  *string               `json:"category_id"`
	QueueID     *string               `json:"queue_id"`
	AssetID     *string               `json:"asset_id"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string               `json:"assignee_id"`
	Status     *domain.TicketStatus `json:"status"`
	QueueID    *string              `json:"queue_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content  string `json:"content"`
	Internal bool   `json:"internal"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	Solution string `json:"solution"`
}

// CloseTicketRequest payload.
type CloseTicketRequest struct {
	Reason       string              `json:"reason"`
	Evaluation   string              `json:"evaluation"`
	EvalCategory domain.EvalCategory `json:"eval_category"`
	Solution     *string             `json:"solution"`
}

// RateTicketRequest payload for the token-based rating endpoint.
type RateTicketRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ParticipantRequest payload.
type ParticipantRequest struct {
	UserID string `json:"user_id"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string                `json:"id"`
	Number       string                `json:"number"`
	Title        string                `json:"title"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	AssignedToID *string               `json:"assigned_to_id"`
	SLAPaused    bool                  `json:"sla_paused"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID                 string                `json:"id"`
	Number             string                `json:"number"`
	Title              string                `json:"title"`
	Description        string                `json:"description"`
	Status             domain.TicketStatus   `json:"status"`
	Priority           domain.TicketPriority `json:"priority"`
	CompanyID          string                `json:"company_id"`
	CreatedByID        string                `json:"created_by_id"`
	AssignedToID       *string               `json:"assigned_to_id"`
	ContractID         *string               `json:"contract_id"`
	CategoryID         *string               `json:"category_id"`
	QueueID            *string               `json:"queue_id"`
	AssetID            *string               `json:"asset_id"`
	SLAPlanID          *string               `json:"sla_plan_id"`
	DueFirstResponseAt *time.Time            `json:"due_first_response_at"`
	DueResolutionAt    *time.Time            `json:"due_resolution_at"`
	SLAPaused          bool                  `json:"sla_paused"`
	FirstResponseAt    *time.Time            `json:"first_response_at"`
	ResolvedAt         *time.Time            `json:"resolved_at"`
	ClosedAt           *time.Time            `json:"closed_at"`
	Solution           *string               `json:"solution"`
	ClosedReason       *string               `json:"closed_reason"`
	UserRating         *int                  `json:"user_rating"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Internal  bool      `json:"internal"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditEntryResponse represents an audit trail record.
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	UserID    *string   `json:"user_id"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationResponse represents an in-app notification.
type NotificationResponse struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Link      string     `json:"link"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at"`
}
