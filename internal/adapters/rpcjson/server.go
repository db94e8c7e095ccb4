package rpcjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/onichandame/porter/internal/application"
	"github.com/onichandame/porter/internal/domain"
)

// Server exposes the registry over JSON-RPC 2.0 on a unix domain socket.
// This is the daemon's only control surface; it is local IPC for the
// operator CLI, not a network listener.
type Server struct {
	service  *application.RegistryService
	listener net.Listener
	path     string
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

func Start(path string, service *application.RegistryService) (*Server, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rpc socket path is required")
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

	s := &Server{service: service, listener: ln, path: path}
	go s.serve()
	return s, nil
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
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
	case "services.list":
		var p struct {
			IncludeDeleted bool `json:"include_deleted"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.ListServices(ctx, p.IncludeDeleted)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "services.get":
		var p struct {
			ID             uint `json:"id"`
			IncludeDeleted bool `json:"include_deleted"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.GetService(ctx, p.ID, p.IncludeDeleted)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "services.create":
		var p struct {
			Host string `json:"host"`
			Port int    `json:"port"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.CreateService(ctx, p.Host, p.Port)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "services.update":
		var p struct {
			ID   uint    `json:"id"`
			Host *string `json:"host"`
			Port *int    `json:"port"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.UpdateService(ctx, p.ID, domain.ServiceUpdate{Host: p.Host, Port: p.Port})
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "services.delete":
		var p struct {
			ID uint `json:"id"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		if err := s.service.SoftDeleteService(ctx, p.ID); err != nil {
			return errorResponse(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: map[string]any{"ok": true}, ID: req.ID}
	case "gates.list":
		var p struct {
			IncludeDeleted bool `json:"include_deleted"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.ListGates(ctx, p.IncludeDeleted)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "gates.get":
		var p struct {
			ID             uint `json:"id"`
			IncludeDeleted bool `json:"include_deleted"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.GetGate(ctx, p.ID, p.IncludeDeleted)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "gates.create":
		var p struct {
			ServiceID uint   `json:"service_id"`
			Host      string `json:"host"`
			Port      int    `json:"port"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.CreateGate(ctx, p.ServiceID, p.Host, p.Port)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "gates.update":
		var p struct {
			ID        uint    `json:"id"`
			ServiceID *uint   `json:"service_id"`
			Host      *string `json:"host"`
			Port      *int    `json:"port"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.UpdateGate(ctx, p.ID, domain.GateUpdate{ServiceID: p.ServiceID, Host: p.Host, Port: p.Port})
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: out, ID: req.ID}
	case "gates.delete":
		var p struct {
			ID uint `json:"id"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		if err := s.service.SoftDeleteGate(ctx, p.ID); err != nil {
			return errorResponse(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: map[string]any{"ok": true}, ID: req.ID}
	default:
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32601, Message: "method not found"}, ID: req.ID}
	}
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

func errorResponse(id any, err error) response {
	var code int
	switch {
	case errors.Is(err, domain.ErrValidation):
		code = 40000
	case errors.Is(err, domain.ErrNotFound):
		code = 40400
	case errors.Is(err, domain.ErrConflict):
		code = 40900
	case errors.Is(err, domain.ErrIntegrity):
		code = 42200
	default:
		return response{JSONRPC: "2.0", Error: &rpcError{Code: 50000, Message: fmt.Sprintf("internal error: %v", err)}, ID: id}
	}
	return response{JSONRPC: "2.0", Error: &rpcError{Code: code, Message: err.Error()}, ID: id}
}
