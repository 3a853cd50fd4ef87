package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dayanaadylkhanova/intro-pow/internal/adapter/wire"
	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

// Server is a demo introduction endpoint. Per connection it sends the
// current params frame, reads a solution frame and a payload frame, and
// answers with one reply frame.
type Server struct {
	log       *slog.Logger
	addr      string
	ttl       time.Duration
	params    ParamsSource
	admission Admission
	ln        net.Listener
	wg        sync.WaitGroup
	connsMu   sync.Mutex
	active    map[net.Conn]struct{}
	shutdownT time.Duration
}

func NewServer(log *slog.Logger, addr string, ttl time.Duration, shutdown time.Duration, params ParamsSource, admission Admission) *Server {
	return &Server{
		log:       log,
		addr:      addr,
		ttl:       ttl,
		shutdownT: shutdown,
		params:    params,
		admission: admission,
		active:    make(map[net.Conn]struct{}),
	}
}

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.ln = ln
	s.log.Info("server started", "addr", ln.Addr().String(), "conn_ttl", s.ttl.String())

	errCh := make(chan error, 1)
	go func() { errCh <- s.acceptLoop(ctx) }()

	select {
	case <-ctx.Done():

		s.log.Info("shutdown: closing listener")
		_ = s.ln.Close()

		s.connsMu.Lock()
		for c := range s.active {
			_ = c.SetDeadline(time.Now().Add(200 * time.Millisecond))
			if tc, ok := c.(*net.TCPConn); ok {
				_ = tc.CloseWrite()
			}
		}
		s.connsMu.Unlock()

		done := make(chan struct{})
		go func() { s.wg.Wait(); close(done) }()
		select {
		case <-done:
			s.log.Info("shutdown: all connections drained")
		case <-time.After(s.shutdownT):
			s.log.Warn("shutdown: force-close remaining connections")
			s.connsMu.Lock()
			for c := range s.active {
				_ = c.Close()
			}
			s.connsMu.Unlock()
		}
		return nil

	case err := <-errCh:
		return err
	}
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Warn("temporary accept error", "err", err)
				time.Sleep(50 * time.Millisecond)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.track(conn, true)
		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			defer s.track(c, false)
			s.handle(ctx, c)
		}(conn)
	}
}

func (s *Server) track(c net.Conn, add bool) {
	s.connsMu.Lock()
	if add {
		s.active[c] = struct{}{}
	} else {
		delete(s.active, c)
	}
	s.connsMu.Unlock()
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	deadline := time.Now().Add(s.ttl)
	_ = conn.SetDeadline(deadline)
	// the request lives no longer than its connection
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	log := s.log.With("conn", uuid.NewString())

	bw := bufio.NewWriter(conn)
	br := bufio.NewReader(conn)

	params := s.params.CurrentParams()
	if err := wire.WriteFrame(bw, wire.EncodeParams(params)); err != nil {
		log.Debug("write params failed", "err", err)
		return
	}
	if err := bw.Flush(); err != nil {
		log.Debug("write params failed", "err", err)
		return
	}
	log.Debug("params issued",
		"remote", conn.RemoteAddr().String(),
		"seed", params.SeedID.Short(),
		"effort", params.Effort,
	)

	solFrame, err := wire.ReadFrame(br)
	if err != nil {
		log.Debug("read solution failed", "err", err)
		return
	}
	payload, err := wire.ReadFrame(br)
	if err != nil {
		log.Debug("read payload failed", "err", err)
		return
	}
	// Nothing more is expected from the client. A read returning means it
	// hung up, and a queued request of a client that is gone is abandoned.
	go func() {
		_, _ = br.ReadByte()
		cancel()
	}()

	sol, err := wire.DecodeSolution(solFrame)
	if err != nil {
		s.admission.Report(entity.OutcomeMalformed)
		s.reply(log, bw, entity.OutcomeMalformed, nil)
		log.Debug("bad solution", "err", err)
		return
	}

	body, err := s.admission.Submit(ctx, sol, payload)
	outcome := entity.OutcomeOf(err)
	if err != nil {
		// rejections carry no detail back to the client
		body = nil
	}
	s.reply(log, bw, outcome, body)
	if outcome == entity.OutcomeValid {
		log.Info("success", "remote", conn.RemoteAddr().String())
	}
}

func (s *Server) reply(log *slog.Logger, bw *bufio.Writer, o entity.Outcome, body []byte) {
	if err := wire.WriteFrame(bw, wire.EncodeReply(o, body)); err != nil {
		log.Debug("write reply failed", "err", err)
		return
	}
	if err := bw.Flush(); err != nil {
		log.Debug("write reply failed", "err", err)
	}
}
