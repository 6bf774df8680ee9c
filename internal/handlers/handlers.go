package handlers

import (
	"github.com/dvalle/modastore-golang/internal/auth"
	"github.com/dvalle/modastore-golang/internal/config"
	"github.com/dvalle/modastore-golang/internal/paypal"
	"github.com/dvalle/modastore-golang/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Store  *store.Store       // Data access layer over the shared pool
	Tokens *auth.TokenService // Session token signing/validation
	PayPal paypal.Verifier    // Payment capture verification
	Config config.Config
}
