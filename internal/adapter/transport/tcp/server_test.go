package tcp

import (
	"context"
	"log/slog"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/dayanaadylkhanova/intro-pow/internal/adapter/wire"
	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

func loggerSilent() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func mustPipe(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	c1, c2 := net.Pipe()
	// дедлайны, чтобы не повиснуть при падении теста
	_ = c1.SetDeadline(time.Now().Add(2 * time.Second))
	_ = c2.SetDeadline(time.Now().Add(2 * time.Second))
	return c1, c2
}

func testParams() entity.Params {
	var id entity.SeedID
	id[0] = 7
	return entity.Params{SeedID: id, Effort: 128, Expiration: time.Unix(1900000000, 0)}
}

func testSolution() entity.Solution {
	return entity.Solution{
		SeedID: testParams().SeedID,
		Nonce:  entity.Nonce{1, 2, 3},
		Effort: 128,
		Proof:  []byte{byte(entity.AlgoBlake2b), 9, 9},
	}
}

// exchange plays the client side: reads params, sends a solution frame and a
// payload frame, returns the decoded reply.
func exchange(t *testing.T, c net.Conn, solFrame, payload []byte) (entity.Params, entity.Outcome, []byte) {
	t.Helper()
	pf, err := wire.ReadFrame(c)
	if err != nil {
		t.Fatalf("read params: %v", err)
	}
	params, err := wire.DecodeParams(pf)
	if err != nil {
		t.Fatalf("decode params: %v", err)
	}
	if err := wire.WriteFrame(c, solFrame); err != nil {
		t.Fatalf("write solution: %v", err)
	}
	if err := wire.WriteFrame(c, payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	rf, err := wire.ReadFrame(c)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	o, body, err := wire.DecodeReply(rf)
	if err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return params, o, body
}

func TestHandle_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParams := NewMockParamsSource(ctrl)
	mockAdm := NewMockAdmission(ctrl)

	mockParams.EXPECT().CurrentParams().Return(testParams())
	mockAdm.EXPECT().Submit(gomock.Any(), testSolution(), []byte("cookie")).Return([]byte("hello, world"), nil)

	srv := NewServer(loggerSilent(), "ignored:0", time.Minute, 200*time.Millisecond, mockParams, mockAdm)

	cli, srvSide := mustPipe(t)
	defer cli.Close()
	defer srvSide.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.handle(context.Background(), srvSide)
	}()

	params, o, body := exchange(t, cli, wire.EncodeSolution(testSolution()), []byte("cookie"))
	if params.SeedID != testParams().SeedID || params.Effort != 128 {
		t.Fatalf("params = %+v; want %+v", params, testParams())
	}
	if o != entity.OutcomeValid {
		t.Fatalf("outcome = %s; want valid", o)
	}
	if string(body) != "hello, world" {
		t.Fatalf("body = %q; want %q", body, "hello, world")
	}

	<-done
}

func TestHandle_RejectionsCarryOnlyOutcome(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want entity.Outcome
	}{
		{"replay", entity.ErrReplayDetected, entity.OutcomeReplayDetected},
		{"expired", entity.ErrSeedExpired, entity.OutcomeSeedExpired},
		{"effort", entity.ErrEffortInsufficient, entity.OutcomeEffortInsufficient},
		{"queue_full", entity.ErrQueueFull, entity.OutcomeQueueFull},
		{"cancelled", context.Canceled, entity.OutcomeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockParams := NewMockParamsSource(ctrl)
			mockAdm := NewMockAdmission(ctrl)
			mockParams.EXPECT().CurrentParams().Return(testParams())
			mockAdm.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("secret"), tc.err)

			srv := NewServer(loggerSilent(), "ignored:0", time.Minute, 200*time.Millisecond, mockParams, mockAdm)
			cli, srvSide := mustPipe(t)
			defer cli.Close()
			defer srvSide.Close()
			go srv.handle(context.Background(), srvSide)

			_, o, body := exchange(t, cli, wire.EncodeSolution(testSolution()), nil)
			if o != tc.want {
				t.Fatalf("outcome = %s; want %s", o, tc.want)
			}
			if len(body) != 0 {
				t.Fatalf("rejection leaked body %q", body)
			}
		})
	}
}

func TestHandle_MalformedSolution(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParams := NewMockParamsSource(ctrl)
	mockAdm := NewMockAdmission(ctrl)

	mockParams.EXPECT().CurrentParams().Return(testParams())
	mockAdm.EXPECT().Report(entity.OutcomeMalformed)
	// Submit не должен вызываться

	srv := NewServer(loggerSilent(), "ignored:0", time.Minute, 200*time.Millisecond, mockParams, mockAdm)

	cli, srvSide := mustPipe(t)
	defer cli.Close()
	defer srvSide.Close()

	go srv.handle(context.Background(), srvSide)

	_, o, _ := exchange(t, cli, []byte("not a solution"), nil)
	if o != entity.OutcomeMalformed {
		t.Fatalf("outcome = %s; want malformed", o)
	}
}

func TestHandle_ClientGoneAfterParams(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParams := NewMockParamsSource(ctrl)
	mockAdm := NewMockAdmission(ctrl)
	mockParams.EXPECT().CurrentParams().Return(testParams())

	srv := NewServer(loggerSilent(), "ignored:0", time.Minute, 200*time.Millisecond, mockParams, mockAdm)
	cli, srvSide := mustPipe(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.handle(context.Background(), srvSide)
	}()

	if _, err := wire.ReadFrame(cli); err != nil {
		t.Fatalf("read params: %v", err)
	}
	_ = cli.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after client closed")
	}
}

func TestHandle_ClientGoneWhileQueued(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParams := NewMockParamsSource(ctrl)
	mockAdm := NewMockAdmission(ctrl)
	mockParams.EXPECT().CurrentParams().Return(testParams())

	abandoned := make(chan struct{})
	mockAdm.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ entity.Solution, _ []byte) ([]byte, error) {
			// контекст запроса должен жить не дольше соединения
			if _, ok := ctx.Deadline(); !ok {
				t.Errorf("request ctx has no deadline")
			}
			select {
			case <-ctx.Done():
				close(abandoned)
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
				t.Errorf("request ctx not cancelled after client hung up")
				return nil, nil
			}
		})

	srv := NewServer(loggerSilent(), "ignored:0", time.Minute, 200*time.Millisecond, mockParams, mockAdm)
	cli, srvSide := mustPipe(t)
	defer srvSide.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.handle(context.Background(), srvSide)
	}()

	if _, err := wire.ReadFrame(cli); err != nil {
		t.Fatalf("read params: %v", err)
	}
	if err := wire.WriteFrame(cli, wire.EncodeSolution(testSolution())); err != nil {
		t.Fatalf("write solution: %v", err)
	}
	if err := wire.WriteFrame(cli, []byte("cookie")); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	_ = cli.Close()

	select {
	case <-abandoned:
	case <-time.After(3 * time.Second):
		t.Fatal("Submit ctx was never cancelled")
	}
	<-done
}

func TestHandle_ParallelMany(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParams := NewMockParamsSource(ctrl)
	mockAdm := NewMockAdmission(ctrl)

	const N = 10

	// ожидаем по N обращений
	mockParams.EXPECT().CurrentParams().Times(N).Return(testParams())
	mockAdm.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(N).Return([]byte("ok"), nil)

	srv := NewServer(loggerSilent(), "ignored:0", time.Minute, 200*time.Millisecond, mockParams, mockAdm)

	var wg sync.WaitGroup
	wg.Add(N)

	for i := 0; i < N; i++ {
		cli, srvSide := mustPipe(t)

		go func(c1, c2 net.Conn) {
			defer wg.Done()
			defer c1.Close()
			defer c2.Close()

			// серверная сторона
			go srv.handle(context.Background(), c2)

			// клиентская сторона
			if err := func() error {
				pf, err := wire.ReadFrame(c1)
				if err != nil {
					return err
				}
				if _, err := wire.DecodeParams(pf); err != nil {
					return err
				}
				if err := wire.WriteFrame(c1, wire.EncodeSolution(testSolution())); err != nil {
					return err
				}
				if err := wire.WriteFrame(c1, []byte{byte(i)}); err != nil {
					return err
				}
				rf, err := wire.ReadFrame(c1)
				if err != nil {
					return err
				}
				if o, body, _ := wire.DecodeReply(rf); o != entity.OutcomeValid || string(body) != "ok" {
					t.Errorf("reply = %s %q; want valid \"ok\"", o, body)
				}
				return nil
			}(); err != nil {
				t.Errorf("client %d: %v", i, err)
			}
		}(cli, srvSide)
	}

	wg.Wait()
}

func TestRun_GracefulShutdown(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParams := NewMockParamsSource(ctrl)
	mockAdm := NewMockAdmission(ctrl)

	mockParams.EXPECT().CurrentParams().AnyTimes().Return(testParams())
	mockAdm.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().Return([]byte("ok"), nil)

	addr := freeTCPAddr(t)
	srv := NewServer(loggerSilent(), addr, 500*time.Millisecond, 200*time.Millisecond, mockParams, mockAdm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	// ждём, пока порт начнёт слушаться
	deadline := time.Now().Add(2 * time.Second)
	var conn net.Conn
	var err error
	for time.Now().Before(deadline) {
		conn, err = net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server did not start listening on %s: %v", addr, err)
	}
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))

	// читаем params
	if _, err := wire.ReadFrame(conn); err != nil {
		t.Fatalf("read params: %v", err)
	}
	_ = conn.(*net.TCPConn).CloseWrite()

	// триггернем shutdown
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned error on shutdown: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestRun_ListenError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	srv := NewServer(loggerSilent(), "256.0.0.1:bad", time.Second, time.Second, NewMockParamsSource(ctrl), NewMockAdmission(ctrl))
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("Run() expected listen error, got nil")
	}
}

func freeTCPAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen temp: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}
