package grpc

import (
	"context"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/rpcapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const emailKey ctxKey = "email"

// accessTokenInterceptor requires a valid session token in the access_token
// metadata for every method except Login.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if info.FullMethod == rpcapi.LoginMethod {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := s.issuer.Parse(accessToken)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return handler(context.WithValue(ctx, emailKey, claims.Email), req)
}

func emailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(emailKey).(string)
	if !ok || email == "" {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return email, nil
}
