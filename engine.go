// Package core implements the orchestrator (spec §2, §5): it owns the
// read-only collaborators every query plans against — the catalog
// snapshot, the operator table, the trait registry, the rule set and the
// per-backend adapters — and drives the external-parse/external-validate →
// plan → translate → emit pipeline for one query at a time while giving
// each query its own planning context (spec §5 "the orchestrator builds a
// planning context ... that is not shared across queries").
package core

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/polypheny/polypheny-core-go/catalog"
	"github.com/polypheny/polypheny-core-go/config"
	"github.com/polypheny/polypheny-core-go/sql/analyzer"
	"github.com/polypheny/polypheny-core-go/sql/docemit"
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
	"github.com/polypheny/polypheny-core-go/sql/rowexec"
	"github.com/polypheny/polypheny-core-go/sql/sqlemit"
	"github.com/polypheny/polypheny-core-go/sql/traits"
)

// ErrNoAdapter is raised when a sealed plan's convention has no registered
// Adapter to emit it, the core-level form of spec §4.3/§7's "no convention
// reachable for a required sub-tree".
var ErrNoAdapter = goerrors.NewKind("no adapter registered for convention %q")

// ErrStalePlan is raised when a plan's implementation-cache version has
// been superseded by a DDL-driven BumpVersion before emission runs (spec
// §5 "stale plans are discarded on next use").
var ErrStalePlan = goerrors.NewKind("plan built against implementation-cache version %d is stale; current version is %d")

// Adapter is the per-backend plug-in the orchestrator consumes (spec §6
// "Adapter interface"): a convention trait identifying the backend, the
// convention-conversion rules that let the rule engine reach it, and an
// emitter conforming to either the relational-SQL or the document-pipeline
// shape. Exactly one of SQL/Document is set.
type Adapter struct {
	Convention *traits.Convention
	SQL        *sqlemit.Emitter
	Document   *docemit.Emitter
}

// Engine is the orchestrator. Its fields are the shared, read-only-for-the-
// duration-of-a-pass collaborators spec §5 names: "the shared parts
// (catalog snapshot, rule registry, type factory, operator table) are
// treated as read-only ... and are safe for concurrent reads." Concurrent
// queries each call Plan independently; Engine itself only serializes
// version bookkeeping and the session-cancellation map.
type Engine struct {
	Catalog   catalog.Reader
	Operators *expression.Table
	Traits    *traits.Registry
	Rules     analyzer.RuleSet
	Config    *config.Config
	Logger    *logrus.Entry
	adapters  map[string]*Adapter

	mu       sync.Mutex
	version  uint64
	sessions map[int64]*queryContext
}

// New builds an Engine. adapters is indexed by convention name; a
// duplicate convention name overwrites an earlier entry.
func New(cat catalog.Reader, ops *expression.Table, tr *traits.Registry, rules analyzer.RuleSet, adapters []*Adapter, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	am := make(map[string]*Adapter, len(adapters))
	for _, a := range adapters {
		am[a.Convention.Name] = a
	}
	return &Engine{
		Catalog: cat, Operators: ops, Traits: tr, Rules: rules, Config: cfg,
		Logger:   logrus.NewEntry(logrus.StandardLogger()),
		adapters: am,
		sessions: make(map[int64]*queryContext),
	}
}

// Version returns the current implementation-cache version.
func (e *Engine) Version() uint64 { return atomic.LoadUint64(&e.version) }

// BumpVersion is called whenever accepted DDL could invalidate placements
// (spec §5 "any DDL that could invalidate placements also bumps a version
// counter that readers observe"); DDL execution itself is the caller's
// responsibility, not this core's.
func (e *Engine) BumpVersion() uint64 { return atomic.AddUint64(&e.version, 1) }

// queryContext is the per-query planning context (spec §5): an isolated
// cancel flag and a Planner built fresh against the engine's current
// iteration bound, plus the implementation-cache version the plan started
// from so staleness can be detected before emission.
type queryContext struct {
	planner     *analyzer.Planner
	cancel      chan struct{}
	planVersion uint64
	requestID   string
	span        opentracing.Span
}

func (qc *queryContext) stale(e *Engine) bool { return qc.planVersion != e.Version() }

// begin opens a fresh planning context for query id: a per-query request id
// (for correlating this pass's log lines and trace span, the way
// auth/audit.go correlates an audit entry to one query), an opentracing
// span covering the whole pipeline pass, and a Planner seeded from the
// engine's current rule set and iteration bound.
func (e *Engine) begin(id int64) *queryContext {
	qc := &queryContext{
		planner:     analyzer.New(e.Rules, e.Config.RuleIterationBound),
		cancel:      make(chan struct{}),
		planVersion: e.Version(),
		requestID:   uuid.New().String(),
	}
	qc.span = opentracing.StartSpan("core.plan")
	qc.span.SetTag("query_id", id)
	qc.span.SetTag("request_id", qc.requestID)
	e.mu.Lock()
	e.sessions[id] = qc
	e.mu.Unlock()
	e.Logger.WithFields(logrus.Fields{"query_id": id, "request_id": qc.requestID}).Debug("planning pass started")
	return qc
}

func (e *Engine) end(id int64) {
	e.mu.Lock()
	qc, ok := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()
	if ok {
		qc.span.Finish()
	}
}

// Cancel aborts query id's in-flight planning/emission pass (spec §5: "the
// orchestrator checks a per-query cancel flag between rule firings and at
// each relation boundary in the emitters; on observation it aborts the
// pass and surfaces a cancellation error"). Cancelling an id with no
// active pass is a no-op.
func (e *Engine) Cancel(id int64) {
	e.mu.Lock()
	qc, ok := e.sessions[id]
	e.mu.Unlock()
	if !ok {
		return
	}
	select {
	case <-qc.cancel:
	default:
		close(qc.cancel)
		e.Logger.WithFields(logrus.Fields{"query_id": id, "request_id": qc.requestID}).Info("planning pass cancelled")
	}
}

// fail logs a pipeline-stage failure against qc's request id and returns
// err unchanged, so a caller checking err against one of this package's
// (or a stage package's) go-errors.v1 Kind still sees the original,
// unwrapped sentinel.
func (e *Engine) fail(qc *queryContext, id int64, stage string, err error) error {
	e.Logger.WithFields(logrus.Fields{"query_id": id, "request_id": qc.requestID, "stage": stage}).WithError(err).Warn("planning pass failed")
	qc.span.SetTag("error", true)
	return err
}

// Plan runs the full plan → translate → emit pipeline for query id against
// root (already parsed and validated externally, per spec §2/§6: parsing
// and catalog validation are not this core's concern). The result is a
// string of SQL text when root's sealed convention maps to a relational-SQL
// Adapter, or a []docemit.Stage when it maps to a document-pipeline
// Adapter.
func (e *Engine) Plan(id int64, root plan.Node) (interface{}, []analyzer.Warning, error) {
	qc := e.begin(id)
	defer e.end(id)

	optimized, warnings, err := qc.planner.OptimizeCancellable(root, qc.cancel)
	if err != nil {
		return nil, nil, e.fail(qc, id, "rule engine", err)
	}
	if qc.stale(e) {
		return nil, nil, e.fail(qc, id, "staleness check", ErrStalePlan.New(qc.planVersion, e.Version()))
	}

	adapter, err := e.adapterFor(optimized)
	if err != nil {
		return nil, warnings, e.fail(qc, id, "adapter resolution", err)
	}

	translated, err := rowexec.TranslateTree(optimized, rowexec.New(e.Operators))
	if err != nil {
		return nil, nil, e.fail(qc, id, "row-expression translation", err)
	}

	switch {
	case adapter.SQL != nil:
		adapter.SQL.Cancel = qc.cancel
		text, err := adapter.SQL.EmitText(translated)
		if err != nil {
			return nil, warnings, e.fail(qc, id, "SQL emission", err)
		}
		return text, warnings, nil
	case adapter.Document != nil:
		adapter.Document.Cancel = qc.cancel
		stages, err := adapter.Document.Emit(translated)
		if err != nil {
			return nil, warnings, e.fail(qc, id, "document-pipeline emission", err)
		}
		return stages, warnings, nil
	default:
		return nil, warnings, fmt.Errorf("core: adapter %q declares neither a SQL nor a Document emitter", adapter.Convention.Name)
	}
}

// PlanModify is Plan's TableModify-shaped analog (spec §4.4/§4.5's INSERT/
// UPDATE/DELETE contracts): the result is the INSERT/UPDATE/DELETE
// statement text for a relational-SQL adapter, or an *docemit.InsertRequest
// /*docemit.DeleteRequest for a document-pipeline adapter.
func (e *Engine) PlanModify(id int64, root *plan.TableModify) (interface{}, []analyzer.Warning, error) {
	qc := e.begin(id)
	defer e.end(id)

	optimized, warnings, err := qc.planner.OptimizeCancellable(root, qc.cancel)
	if err != nil {
		return nil, nil, e.fail(qc, id, "rule engine", err)
	}
	if qc.stale(e) {
		return nil, nil, e.fail(qc, id, "staleness check", ErrStalePlan.New(qc.planVersion, e.Version()))
	}

	adapter, err := e.adapterFor(optimized)
	if err != nil {
		return nil, warnings, e.fail(qc, id, "adapter resolution", err)
	}

	translated, err := rowexec.TranslateTree(optimized, rowexec.New(e.Operators))
	if err != nil {
		return nil, nil, e.fail(qc, id, "row-expression translation", err)
	}
	modify, ok := translated.(*plan.TableModify)
	if !ok {
		return nil, nil, fmt.Errorf("core: PlanModify requires a TableModify root, got %T", translated)
	}

	switch {
	case adapter.SQL != nil:
		adapter.SQL.Cancel = qc.cancel
		rel, err := adapter.SQL.Emit(modify)
		if err != nil {
			return nil, nil, e.fail(qc, id, "SQL emission", err)
		}
		return rel.Statement(), warnings, nil
	case adapter.Document != nil:
		adapter.Document.Cancel = qc.cancel
		out, err := adapter.Document.EmitModify(modify)
		if err != nil {
			return nil, warnings, e.fail(qc, id, "document-pipeline emission", err)
		}
		return out, warnings, nil
	default:
		return nil, warnings, fmt.Errorf("core: adapter %q declares neither a SQL nor a Document emitter", adapter.Convention.Name)
	}
}

func (e *Engine) adapterFor(n plan.Node) (*Adapter, error) {
	conv, _ := n.Traits().GetByName(traits.ConventionTraitDef.Name()).(*traits.Convention)
	if conv == nil {
		conv = traits.NoneConvention
	}
	adapter, ok := e.adapters[conv.Name]
	if !ok {
		return nil, ErrNoAdapter.New(conv.Name)
	}
	return adapter, nil
}
