package http

import (
	"github.com/identity-verify-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/identity-verify-api/internal/infrastructure/jwt"
	"github.com/identity-verify-api/internal/infrastructure/registry"
	s3infra "github.com/identity-verify-api/internal/infrastructure/s3"
	"github.com/identity-verify-api/internal/infrastructure/smtp"
	"github.com/identity-verify-api/internal/infrastructure/sns"
	"github.com/identity-verify-api/internal/infrastructure/vault"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	ListRepo  *dynamo.ListRepo
	EntryRepo *dynamo.EntryRepo
	AuditRepo *dynamo.AuditRepo
	StaffRepo *dynamo.StaffRepo

	Vault     *vault.Vault
	S3Store   *s3infra.Store
	Mailer    smtp.Mailer
	SMSSender sns.SMSSender

	CACClient registry.Client
	NINClient registry.Client

	JWTProvider *jwtinfra.Provider
}
