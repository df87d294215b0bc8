// Package rpcclient is a small client for the healthkeeper.v1.HealthRecords
// gRPC API.
package rpcclient

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/rpcapi"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client remembers the access token obtained by Login and sends it with
// every following call.
type Client struct {
	cc          grpc.ClientConnInterface
	accessToken string
}

func New(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial connects to addr without TLS. The returned close function releases
// the connection.
func Dial(addr string, opts ...grpc.DialOption) (*Client, func() error, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return New(conn), conn.Close, nil
}

func (c *Client) invoke(ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	if c.accessToken != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, c.accessToken)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login authenticates and returns the account's display name.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	out, err := c.invoke(ctx, rpcapi.LoginMethod, map[string]any{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	c.accessToken = rpcapi.String(out, "access_token")
	return rpcapi.String(out, "name"), nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	out, err := c.invoke(ctx, rpcapi.GetProfileMethod, map[string]any{})
	if err != nil {
		return nil, err
	}
	return rpcapi.UserFromStruct(out)
}

// UpdateProfile sends raw form values; empty strings clear a field.
func (c *Client) UpdateProfile(ctx context.Context, age, sex, race string) (*models.User, error) {
	out, err := c.invoke(ctx, rpcapi.UpdateProfileMethod, map[string]any{"age": age, "sex": sex, "race": race})
	if err != nil {
		return nil, err
	}
	return rpcapi.UserFromStruct(out)
}

func (c *Client) ListFiles(ctx context.Context) ([]*models.HealthFile, error) {
	out, err := c.invoke(ctx, rpcapi.ListFilesMethod, map[string]any{})
	if err != nil {
		return nil, err
	}
	return rpcapi.FilesFromStruct(out)
}

func (c *Client) DeleteFile(ctx context.Context, filename string) error {
	_, err := c.invoke(ctx, rpcapi.DeleteFileMethod, map[string]any{"filename": filename})
	return err
}
