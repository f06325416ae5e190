package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"

	"github.com/povarna/generative-ai-agents/debate-agent/internal/generator"
)

type Generator interface {
	Generate(ctx context.Context, kind generator.Kind, payload generator.Payload) (*generator.Result, error)
}

// QuotaChecker counts a request against the caller's daily allowance.
type QuotaChecker interface {
	Allow(ctx context.Context, id string) error
}
