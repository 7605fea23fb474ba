package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTenderRequest struct {
	Name       string `json:"name"        validate:"required,min=2,max=200"`
	ClientName string `json:"client_name" validate:"max=200"`
}

type CreatePositionRequest struct {
	Number int    `json:"number" validate:"required,min=1"`
	Title  string `json:"title"  validate:"required,min=1,max=300"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TenderResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClientName string `json:"client_name"`
	CreatedAt  string `json:"created_at"`
}

type TenderListResponse struct {
	Data  []TenderResponse `json:"data"`
	Total int64            `json:"total"`
}

type PositionResponse struct {
	ID       string `json:"id"`
	TenderID string `json:"tender_id"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
}
