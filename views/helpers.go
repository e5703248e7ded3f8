package views

import (
	"context"

	"github.com/AdamBeresnev/silat-bracket/internal/middleware"
)

func ActiveBracketID(ctx context.Context) string {
	id, _ := middleware.GetActiveBracketID(ctx)
	return id
}
