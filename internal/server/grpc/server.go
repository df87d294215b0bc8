// Package grpc serves the healthkeeper.v1.HealthRecords API used by the admin
// CLI and other programmatic clients.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/rpcapi"
	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"google.golang.org/grpc"
)

// Directory is the part of services.Directory the API needs.
type Directory interface {
	ValidateCredentials(ctx context.Context, email, password string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, p models.Profile) (*models.User, error)
}

// Ledger is the part of services.Ledger the API needs.
type Ledger interface {
	List(ctx context.Context, email string) ([]*models.HealthFile, error)
	Delete(ctx context.Context, email, storedFilename string) error
}

type GRPCServer struct {
	address   string
	directory Directory
	ledger    Ledger
	issuer    *auth.Issuer
	logger    logging.Logger
}

var _ rpcapi.HealthRecordsServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, d Directory, lg Ledger, issuer *auth.Issuer) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		directory: d,
		ledger:    lg,
		issuer:    issuer,
	}
}

// NewServer creates the gRPC server with the service and interceptor
// registered but does not start listening.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	rpcapi.RegisterHealthRecordsServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
