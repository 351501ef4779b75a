package rpcjson

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/application"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"go.uber.org/zap"
)

const (
	codeUnauthorized = 40100
	codeForbidden    = 40300
	codeConflict     = 40900
	codeInvalid      = 40000
	codeNotFound     = 40400
	codeInternal     = 50000
)

// Server speaks line-delimited JSON-RPC 2.0 over a unix socket. Every method
// except auth.login carries an API token in its params.
type Server struct {
	service  *application.RecordsService
	logger   *zap.Logger
	listener net.Listener
	path     string

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func Start(path string, service *application.RecordsService, logger *zap.Logger) (*Server, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rpc socket path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		_ = os.Remove(path)
		return nil, err
	}

	s := &Server{service: service, logger: logger, listener: ln, path: path, conns: make(map[net.Conn]struct{})}
	s.wg.Add(1)
	go s.serve()
	return s, nil
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		if !s.track(conn) {
			_ = conn.Close()
			continue
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Close stops accepting, drops open connections and waits for their
// goroutines to exit.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.mu.Lock()
	s.closed = true
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer func() { _ = conn.Close() }()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			_ = enc.Encode(response{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}, ID: nil})
			return
		}

		resp := s.dispatch(context.Background(), req)
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req request) response {
	if req.JSONRPC != "2.0" || strings.TrimSpace(req.Method) == "" {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32600, Message: "invalid request"}, ID: req.ID}
	}

	switch req.Method {
	case "auth.login":
		return s.handleAuthLogin(ctx, req)
	case "auth.whoami":
		return s.call(ctx, req, nil, func(o domain.Officer) (any, error) {
			return map[string]any{"id": o.ID, "name": o.Name, "badge": o.Badge, "rank": o.RankName(), "level": o.EffectiveLevel()}, nil
		})

	case "ranks.list":
		return s.call(ctx, req, nil, func(domain.Officer) (any, error) {
			return result(s.service.ListRanks(ctx))
		})
	case "ranks.create":
		var p struct {
			Name  string `json:"name"`
			Level int    `json:"level"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			return result(s.service.CreateRank(ctx, o, p.Name, p.Level))
		})

	case "officers.list":
		var p struct {
			Q     string `json:"q"`
			Limit int    `json:"limit"`
		}
		return s.call(ctx, req, &p, func(domain.Officer) (any, error) {
			return result(s.service.ListOfficers(ctx, p.Q, p.Limit))
		})
	case "officers.register":
		var p struct {
			Name       string `json:"name"`
			Badge      string `json:"badge"`
			Password   string `json:"password"`
			RankID     *uint  `json:"rank_id"`
			Station    string `json:"station"`
			Department string `json:"department"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			return result(s.service.RegisterOfficer(ctx, o, application.RegisterOfficerInput{
				Name:       p.Name,
				Badge:      p.Badge,
				Password:   p.Password,
				RankID:     p.RankID,
				Station:    p.Station,
				Department: p.Department,
			}))
		})
	case "officers.profile":
		var p struct {
			OfficerID uint `json:"officer_id"`
		}
		return s.call(ctx, req, &p, func(domain.Officer) (any, error) {
			return result(s.service.GetProfile(ctx, p.OfficerID))
		})
	case "officers.rank":
		var p struct {
			OfficerID uint   `json:"officer_id"`
			RankID    *uint  `json:"rank_id"`
			Reason    string `json:"reason"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			return result(s.service.ChangeRank(ctx, o, p.OfficerID, p.RankID, p.Reason))
		})
	case "officers.discipline":
		var p struct {
			OfficerID   uint   `json:"officer_id"`
			Category    string `json:"category"`
			Description string `json:"description"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			return result(s.service.ApplyDiscipline(ctx, o, p.OfficerID, p.Category, p.Description))
		})
	case "officers.delete":
		var p struct {
			OfficerID uint `json:"officer_id"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			if err := s.service.DeleteOfficer(ctx, o, p.OfficerID); err != nil {
				return nil, err
			}
			return map[string]any{"ok": true}, nil
		})

	case "items.list":
		var p struct {
			Collection string `json:"collection"`
		}
		return s.call(ctx, req, &p, func(domain.Officer) (any, error) {
			var collection *domain.CollectionType
			if c := strings.TrimSpace(p.Collection); c != "" {
				ct := domain.CollectionType(c)
				collection = &ct
			}
			return result(s.service.ListItems(ctx, collection))
		})
	case "items.register":
		var p struct {
			Collection string `json:"collection"`
			Category   string `json:"category"`
			Model      string `json:"model"`
			Brand      string `json:"brand"`
			Caliber    string `json:"caliber"`
			Serial     string `json:"serial"`
			ReportID   *uint  `json:"report_id"`
			ArrestID   *uint  `json:"arrest_id"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			return result(s.service.RegisterItem(ctx, o, application.RegisterItemInput{
				Collection: domain.CollectionType(p.Collection),
				Category:   p.Category,
				Model:      p.Model,
				Brand:      p.Brand,
				Caliber:    p.Caliber,
				Serial:     p.Serial,
				ReportID:   p.ReportID,
				ArrestID:   p.ArrestID,
			}))
		})
	case "items.get":
		var p struct {
			ItemID uint `json:"item_id"`
		}
		return s.call(ctx, req, &p, func(domain.Officer) (any, error) {
			return result(s.service.GetItem(ctx, p.ItemID))
		})
	case "items.history":
		var p struct {
			ItemID uint `json:"item_id"`
		}
		return s.call(ctx, req, &p, func(domain.Officer) (any, error) {
			return result(s.service.ItemHistory(ctx, p.ItemID))
		})
	case "items.move":
		var p struct {
			ItemID       uint   `json:"item_id"`
			MovementType string `json:"movement_type"`
			Selector     string `json:"selector"`
			FreeText     string `json:"free_text"`
			Destination  string `json:"destination"`
			Note         string `json:"note"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			item, movement, err := s.service.MoveItem(ctx, o, p.ItemID, application.MoveItemInput{
				MovementType: domain.MovementType(p.MovementType),
				Selector:     p.Selector,
				FreeText:     p.FreeText,
				Destination:  p.Destination,
				Note:         p.Note,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"item": item, "movement": movement}, nil
		})

	case "reports.list":
		var p struct {
			Limit int `json:"limit"`
		}
		return s.call(ctx, req, &p, func(domain.Officer) (any, error) {
			return result(s.service.ListReports(ctx, p.Limit))
		})
	case "reports.create":
		var p struct {
			Complainant string `json:"complainant"`
			Victim      string `json:"victim"`
			Nature      string `json:"nature"`
			Description string `json:"description"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			return result(s.service.CreateReport(ctx, o, application.ReportInput{
				Complainant: p.Complainant,
				Victim:      p.Victim,
				Nature:      p.Nature,
				Description: p.Description,
			}))
		})
	case "reports.toggle":
		var p struct {
			ReportID uint `json:"report_id"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			return result(s.service.ToggleReportStatus(ctx, o, p.ReportID))
		})

	case "arrests.list":
		var p struct {
			Limit int `json:"limit"`
		}
		return s.call(ctx, req, &p, func(domain.Officer) (any, error) {
			return result(s.service.ListArrests(ctx, p.Limit))
		})
	case "arrests.create":
		var p struct {
			Detainee    string `json:"detainee"`
			Nature      string `json:"nature"`
			Description string `json:"description"`
			Witnesses   string `json:"witnesses"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			return result(s.service.CreateArrest(ctx, o, application.ArrestInput{
				Detainee:    p.Detainee,
				Nature:      p.Nature,
				Description: p.Description,
				Witnesses:   p.Witnesses,
			}))
		})

	case "citizens.search":
		var p struct {
			Q     string `json:"q"`
			Limit int    `json:"limit"`
		}
		return s.call(ctx, req, &p, func(domain.Officer) (any, error) {
			return result(s.service.SearchCitizens(ctx, p.Q, p.Limit))
		})
	case "crimes.list":
		return s.call(ctx, req, nil, func(domain.Officer) (any, error) {
			return result(s.service.ListCrimes(ctx))
		})
	case "announcements.list":
		var p struct {
			Category string `json:"category"`
			Q        string `json:"q"`
			Limit    int    `json:"limit"`
		}
		return s.call(ctx, req, &p, func(domain.Officer) (any, error) {
			return result(s.service.ListAnnouncements(ctx, p.Category, p.Q, p.Limit))
		})
	case "audit.list":
		var p struct {
			Limit int `json:"limit"`
		}
		return s.call(ctx, req, &p, func(o domain.Officer) (any, error) {
			return result(s.service.ListAuditLogs(ctx, o, p.Limit))
		})
	default:
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32601, Message: "method not found"}, ID: req.ID}
	}
}

func (s *Server) handleAuthLogin(ctx context.Context, req request) response {
	var p struct {
		Badge     string `json:"badge"`
		Password  string `json:"password"`
		TokenName string `json:"token_name"`
	}
	if !decodeParams(req.Params, &p) {
		return invalidParams(req.ID)
	}
	o, token, err := s.service.LoginWithAPIToken(ctx, p.Badge, p.Password, p.TokenName, nil)
	if err != nil {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeUnauthorized, Message: "invalid credentials"}, ID: req.ID}
	}
	return response{JSONRPC: "2.0", Result: map[string]any{"officer_id": o.ID, "badge": o.Badge, "token": token}, ID: req.ID}
}

// call authenticates the request, decodes params into dst when given and runs
// fn as the authenticated officer.
func (s *Server) call(ctx context.Context, req request, dst any, fn func(domain.Officer) (any, error)) response {
	identity, rpcResp, ok := s.authz(ctx, req)
	if !ok {
		return rpcResp
	}
	if dst != nil && !decodeParams(req.Params, dst) {
		return invalidParams(req.ID)
	}
	out, err := fn(identity.Officer)
	if err != nil {
		return s.appError(req, err)
	}
	return response{JSONRPC: "2.0", Result: out, ID: req.ID}
}

func (s *Server) authz(ctx context.Context, req request) (domain.Identity, response, bool) {
	var p struct {
		Token string `json:"token"`
	}
	if !decodeParams(req.Params, &p) {
		return domain.Identity{}, invalidParams(req.ID), false
	}
	identity, err := s.service.AuthenticateBearerToken(ctx, p.Token)
	if err != nil {
		return domain.Identity{}, response{JSONRPC: "2.0", Error: &rpcError{Code: codeUnauthorized, Message: "unauthorized"}, ID: req.ID}, false
	}
	return identity, response{}, true
}

func (s *Server) appError(req request, err error) response {
	code := errorCode(err)
	message := err.Error()
	if code == codeInternal {
		s.logger.Error("rpc call failed", zap.String("method", req.Method), zap.Error(err))
		message = "internal error"
	}
	return response{JSONRPC: "2.0", Error: &rpcError{Code: code, Message: message}, ID: req.ID}
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return codeUnauthorized
	case errors.Is(err, domain.ErrPermissionDenied):
		return codeForbidden
	case errors.Is(err, domain.ErrDuplicateBadge),
		errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrDuplicateSerial),
		errors.Is(err, domain.ErrDuplicateDocument):
		return codeConflict
	case errors.Is(err, domain.ErrValidation):
		return codeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return codeNotFound
	default:
		return codeInternal
	}
}

func result[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func decodeParams(raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func invalidParams(id any) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: -32602, Message: "invalid params"}, ID: id}
}
