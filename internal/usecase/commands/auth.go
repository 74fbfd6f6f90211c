package commands

import (
	"context"

	"fleet-rental/internal/domain/account"
	reqdto "fleet-rental/internal/handler/dto/request"
	"fleet-rental/internal/infra"
	"fleet-rental/internal/pkg/clock"
	"fleet-rental/internal/pkg/errs"
	"fleet-rental/internal/pkg/jwt"
	"fleet-rental/internal/pkg/password"
	"fleet-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrAuthenticationFailed = errs.New("invalid email or password")
	ErrAccountDisabled      = errs.New("account is disabled")
	ErrAccountNotFound      = errs.New("account not found")
	ErrInvalidRefreshToken  = errs.New("invalid refresh token")
	ErrDuplicateEmail       = errs.New("email already registered")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Register(ctx context.Context, req reqdto.RegisterAccountRequest) (uuid.UUID, error)
	Login(ctx context.Context, email, rawPassword string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{uow: uow, jwtService: jwtService, clock: clk}
}

func (u *authCommandsImpl) Register(ctx context.Context, req reqdto.RegisterAccountRequest) (uuid.UUID, error) {
	email, err := account.NewEmail(req.Email)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrAuthenticationFailed)
	}
	role, err := account.NewRole(req.Role)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "invalid role")
	}
	hash, err := password.HashPassword(req.Password)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to hash password")
	}

	a := account.NewAccount(email, hash, role)
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Accounts().Create(ctx, a)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, errs.Mark(err, ErrDuplicateEmail)
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return a.ID(), nil
}

func (u *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*TokenPair, error) {
	snap, hash, err := u.uow.CommandReads().AccountByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !snap.IsActive {
		return nil, ErrAccountDisabled
	}
	if err := password.ComparePassword(hash, rawPassword); err != nil {
		return nil, ErrAuthenticationFailed
	}

	role, err := account.NewRole(snap.Role)
	if err != nil {
		return nil, errs.Wrap(err, "stored role is invalid")
	}
	pair, err := u.issueTokens(snap.ID, role)
	if err != nil {
		return nil, err
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Accounts().UpdateLastLogin(ctx, snap.ID, u.clock.Now())
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return pair, nil
}

func (u *authCommandsImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	snap, err := u.uow.CommandReads().AccountByID(ctx, claims.AccountID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !snap.IsActive {
		return nil, ErrAccountDisabled
	}

	role, err := account.NewRole(snap.Role)
	if err != nil {
		return nil, errs.Wrap(err, "stored role is invalid")
	}
	return u.issueTokens(snap.ID, role)
}

func (u *authCommandsImpl) issueTokens(accountID uuid.UUID, role account.Role) (*TokenPair, error) {
	access, err := u.jwtService.GenerateAccessToken(accountID, role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to sign access token")
	}
	refresh, err := u.jwtService.GenerateRefreshToken(accountID, role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to sign refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
