package rpcclient

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/rpcapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type recordedCall struct {
	method string
	token  []string
	req    *structpb.Struct
}

type fakeConn struct {
	calls []recordedCall
	reply map[string]*structpb.Struct
	err   error
}

func (f *fakeConn) Invoke(ctx context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	md, _ := metadata.FromOutgoingContext(ctx)
	f.calls = append(f.calls, recordedCall{method: method, token: md.Get(common.AccessTokenHeaderName), req: args.(*structpb.Struct)})
	if f.err != nil {
		return f.err
	}
	if r, ok := f.reply[method]; ok {
		proto.Merge(reply.(*structpb.Struct), r)
	}
	return nil
}

func (f *fakeConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("not supported")
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestClient_LoginThenAuthenticatedCalls(t *testing.T) {
	conn := &fakeConn{reply: map[string]*structpb.Struct{
		rpcapi.LoginMethod: mustStruct(t, map[string]any{"access_token": "tok", "name": "Alice"}),
		rpcapi.ListFilesMethod: mustStruct(t, map[string]any{"files": []any{
			map[string]any{"filename": "f1", "original_filename": "scan.pdf", "uploaded_at": "2024-03-01T12:00:05Z"},
		}}),
	}}
	c := New(conn)
	ctx := context.Background()

	name, err := c.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	files, err := c.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "scan.pdf", files[0].OriginalFilename)

	require.NoError(t, c.DeleteFile(ctx, "f1"))

	require.Len(t, conn.calls, 3)
	assert.Empty(t, conn.calls[0].token, "login is sent without a token")
	assert.Equal(t, "a@x.com", rpcapi.String(conn.calls[0].req, "email"))
	assert.Equal(t, []string{"tok"}, conn.calls[1].token)
	assert.Equal(t, []string{"tok"}, conn.calls[2].token)
	assert.Equal(t, "f1", rpcapi.String(conn.calls[2].req, "filename"))
}

func TestClient_PropagatesErrors(t *testing.T) {
	boom := errors.New("unavailable")
	c := New(&fakeConn{err: boom})

	_, err := c.Login(context.Background(), "a@x.com", "p1")
	require.ErrorIs(t, err, boom)
	_, err = c.Profile(context.Background())
	require.ErrorIs(t, err, boom)
}
