package rpcjson

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/db/sqlite"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/filestore"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/hasher"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/application"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type rpcClient struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	next int
}

type rpcReply struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
	ID     int             `json:"id"`
}

func (c *rpcClient) call(t *testing.T, method string, params any) rpcReply {
	t.Helper()
	c.next++
	require.NoError(t, c.enc.Encode(map[string]any{"jsonrpc": "2.0", "method": method, "params": params, "id": c.next}))
	var reply rpcReply
	require.NoError(t, c.dec.Decode(&reply))
	require.Equal(t, c.next, reply.ID)
	return reply
}

func startTestServer(t *testing.T) (*Server, *rpcClient) {
	t.Helper()
	t.Cleanup(func() { goleak.VerifyNone(t) })

	ctx := context.Background()
	dir := t.TempDir()
	db, err := sqlite.Open(filepath.Join(dir, "records.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.RunMigrations(ctx, db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	files, err := filestore.NewLocal(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	svc := application.NewRecordsService(sqlite.NewRecordsRepository(db), hasher.NewBcrypt(bcrypt.MinCost), files, logger, nil)
	_, err = svc.BootstrapChief(ctx, application.BootstrapInput{Badge: "0001", Name: "Chief Rocha", Password: "chief-pass", RankName: "Chief", RankLevel: 100})
	require.NoError(t, err)

	srv, err := Start(filepath.Join(dir, "rpc.sock"), svc, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	conn, err := net.Dial("unix", srv.path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return srv, &rpcClient{conn: conn, enc: json.NewEncoder(conn), dec: json.NewDecoder(conn)}
}

func TestLoginAndCustodyOverSocket(t *testing.T) {
	_, c := startTestServer(t)

	reply := c.call(t, "auth.login", map[string]any{"badge": "0001", "password": "bad"})
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeUnauthorized, reply.Error.Code)

	reply = c.call(t, "auth.login", map[string]any{"badge": "0001", "password": "chief-pass", "token_name": "cli"})
	require.Nil(t, reply.Error)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &login))

	reply = c.call(t, "items.register", map[string]any{"token": login.Token, "collection": "Asset", "category": "Rifle", "model": "M4"})
	require.Nil(t, reply.Error)
	var item domain.SeizedItem
	require.NoError(t, json.Unmarshal(reply.Result, &item))
	assert.Equal(t, domain.StatusAvailable, item.Status)

	reply = c.call(t, "items.move", map[string]any{"token": login.Token, "item_id": item.ID, "movement_type": "Withdraw", "selector": "Unit 7"})
	require.Nil(t, reply.Error)

	reply = c.call(t, "items.history", map[string]any{"token": login.Token, "item_id": item.ID})
	require.Nil(t, reply.Error)
	var history []domain.MovementRecord
	require.NoError(t, json.Unmarshal(reply.Result, &history))
	require.Len(t, history, 2)
	assert.Equal(t, "Unit 7", history[0].Destination)
}

func TestErrorCodes(t *testing.T) {
	_, c := startTestServer(t)

	reply := c.call(t, "items.list", map[string]any{"token": "nope"})
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeUnauthorized, reply.Error.Code)

	reply = c.call(t, "auth.login", map[string]any{"badge": "0001", "password": "chief-pass"})
	require.Nil(t, reply.Error)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &login))

	reply = c.call(t, "items.get", map[string]any{"token": login.Token, "item_id": 404})
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeNotFound, reply.Error.Code)

	reply = c.call(t, "ranks.create", map[string]any{"token": login.Token, "name": "Chief", "level": 1})
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeConflict, reply.Error.Code)

	reply = c.call(t, "ranks.create", map[string]any{"token": login.Token, "name": "Sky Marshal", "level": 150})
	require.Nil(t, reply.Error, "the chief may define ranks above their own")

	reply = c.call(t, "officers.delete", map[string]any{"token": login.Token, "officer_id": 1})
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeForbidden, reply.Error.Code)

	reply = c.call(t, "items.move", map[string]any{"token": login.Token, "item_id": 1})
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeInvalid, reply.Error.Code)

	reply = c.call(t, "nope.nope", map[string]any{"token": login.Token})
	require.NotNil(t, reply.Error)
	assert.Equal(t, -32601, reply.Error.Code)
}

func TestCloseDropsOpenConnections(t *testing.T) {
	srv, c := startTestServer(t)

	require.NoError(t, srv.Close())
	var reply rpcReply
	assert.Error(t, c.dec.Decode(&reply))
}
