package diskloadstatfx

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"

	"github.com/discochess/loadstat"
	"github.com/discochess/loadstat/analysis"
)

func sample(base float64) analysis.Sample {
	offsets := []float64{0, 2, -2, 1, -1}
	s := make(analysis.Sample, 40)
	for i := range s {
		s[i] = base + offsets[i%len(offsets)]
	}
	return s
}

func TestModule(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	var a *loadstat.Analyzer
	app := fxtest.New(t,
		fx.Supply(Config{DataDir: dataDir, Polarity: analysis.LowerIsBetter}),
		fx.Supply(zaptest.NewLogger(t)),
		Module,
		fx.Populate(&a),
	)
	app.RequireStart()

	ctx := context.Background()
	if err := a.SaveBaseline(ctx, "checkout", sample(100)); err != nil {
		t.Fatalf("SaveBaseline() error = %v", err)
	}
	res, err := a.CompareScenario(ctx, "checkout", sample(130))
	if err != nil {
		t.Fatalf("CompareScenario() error = %v", err)
	}
	if !res.Regressed() {
		t.Errorf("Direction = %s, want regression", res.Verdict.Direction)
	}

	app.RequireStop()

	if err := a.Close(); !errors.Is(err, loadstat.ErrClosed) {
		t.Errorf("Close() after stop error = %v, want ErrClosed", err)
	}
}

func TestModule_PersistsAcrossApps(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	run := func(fn func(*loadstat.Analyzer)) {
		var a *loadstat.Analyzer
		app := fxtest.New(t,
			fx.Supply(Config{DataDir: dataDir, CacheSize: 2}),
			fx.Supply(zaptest.NewLogger(t)),
			Module,
			fx.Populate(&a),
		)
		app.RequireStart()
		defer app.RequireStop()
		fn(a)
	}

	run(func(a *loadstat.Analyzer) {
		if err := a.SaveBaseline(ctx, "search", sample(100)); err != nil {
			t.Fatalf("SaveBaseline() error = %v", err)
		}
	})
	run(func(a *loadstat.Analyzer) {
		names, err := a.ListBaselines(ctx)
		if err != nil {
			t.Fatalf("ListBaselines() error = %v", err)
		}
		if len(names) != 1 || names[0] != "search" {
			t.Errorf("ListBaselines() = %v, want [search]", names)
		}
	})
}

func TestModule_InvalidAlpha(t *testing.T) {
	app := fx.New(
		fx.Supply(Config{DataDir: t.TempDir(), Alpha: 2}),
		fx.Supply(zaptest.NewLogger(t)),
		Module,
		fx.Invoke(func(*loadstat.Analyzer) {}),
		fx.NopLogger,
	)
	if app.Err() == nil {
		t.Error("app.Err() = nil, want error for invalid alpha")
	}
}

func TestModule_InvalidPValueMode(t *testing.T) {
	app := fx.New(
		fx.Supply(Config{DataDir: t.TempDir(), PValueMode: "bogus"}),
		fx.Supply(zaptest.NewLogger(t)),
		Module,
		fx.Invoke(func(*loadstat.Analyzer) {}),
		fx.NopLogger,
	)
	if app.Err() == nil {
		t.Error("app.Err() = nil, want error for unknown p-value mode")
	}
}
