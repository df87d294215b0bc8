package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/rpcapi"
	"github.com/dmitrijs2005/healthkeeper/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	user, err := s.directory.ValidateCredentials(ctx, rpcapi.String(req, "email"), rpcapi.String(req, "password"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	token, err := s.issuer.Issue(user.Email, user.Name)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Logged in", "email", user.Email)
	return structpb.NewStruct(map[string]any{"access_token": token, "name": user.Name})
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	email, err := emailFromContext(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return structpb.NewStruct(map[string]any{"user": rpcapi.UserToValue(user)})
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email, err := emailFromContext(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := services.ParseProfile(rpcapi.String(req, "age"), rpcapi.String(req, "sex"), rpcapi.String(req, "race"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	user, err := s.directory.UpdateProfile(ctx, email, profile)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return structpb.NewStruct(map[string]any{"user": rpcapi.UserToValue(user)})
}

func (s *GRPCServer) ListFiles(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	email, err := emailFromContext(ctx)
	if err != nil {
		return nil, err
	}

	files, err := s.ledger.List(ctx, email)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return structpb.NewStruct(map[string]any{"files": rpcapi.FilesToValue(files)})
}

func (s *GRPCServer) DeleteFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email, err := emailFromContext(ctx)
	if err != nil {
		return nil, err
	}

	filename := rpcapi.String(req, "filename")
	if filename == "" {
		return nil, status.Error(codes.InvalidArgument, "filename is required")
	}

	if err := s.ledger.Delete(ctx, email, filename); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return structpb.NewStruct(map[string]any{"deleted": filename})
}

// toStatus maps service errors onto gRPC status codes.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, services.ValidationMessage(err))
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "invalid email or password")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	}
	s.logger.Error(ctx, err.Error())
	return status.Error(codes.Internal, "internal error")
}
