package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dukex/reelflow/pkg/eventbus"
	"github.com/dukex/reelflow/pkg/events"
	"github.com/dukex/reelflow/pkg/graph"
	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/otelhelper"
	"github.com/dukex/reelflow/pkg/protocol"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Engine walks a graph in topological order, feeding each node's recorded
// outputs into the input bags of its dependents. Execution is sequential:
// each node's Execute is awaited before the next starts, even when branches
// are independent. Cancellation mid-run is not supported; the engine only
// observes a node failure after the fact.
type Engine struct {
	logger *slog.Logger
	tracer trace.Tracer
}

type Option func(*Engine)

// WithTracer enables per-run and per-node spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

func New(logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{logger: logger}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run validates the graph, obtains the topological order and executes every
// node in it. Progress events go to sink (which may be nil). On the first
// node failure the run stops, keeps the outputs recorded so far and returns
// the run result together with a *NodeExecutionError naming the node.
func (e *Engine) Run(ctx context.Context, g *graph.Graph, sink eventbus.EventPublisher) (*models.RunResult, error) {
	if sink == nil {
		sink = eventbus.NullPublisher{}
	}

	logger := e.logger.With("graph_id", g.ID())

	if issues := g.Validate(); len(issues) > 0 {
		logger.Warn("Refusing to run invalid graph", "issues", len(issues))

		return nil, &ValidationError{Issues: issues}
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		// Validate already checks acyclicity; a cycle here means the
		// graph changed between the calls.
		return nil, err
	}

	run := &models.RunResult{
		ID:        "run-" + uuid.New().String()[:8],
		GraphID:   g.ID(),
		Status:    models.RunStatusRunning,
		Results:   make(map[string]models.NodeResult, len(order)),
		StartedAt: time.Now().UTC(),
	}

	logger = logger.With("run_id", run.ID)
	logger.Info("Starting graph run", "nodes", len(order))

	if e.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "engine.run",
			attribute.String(otelhelper.GraphIDKey, g.ID()),
			attribute.String(otelhelper.RunIDKey, run.ID))
		defer span.End()
	}

	e.emit(ctx, sink, run, events.RunStarted{
		BaseEvent: e.baseEvent(events.RunStartedEvent, run),
		NodeCount: len(order),
	})

	for _, nodeID := range order {
		if err := e.runNode(ctx, g, run, nodeID, sink, logger); err != nil {
			run.Status = models.RunStatusFailed
			run.FailedNodeID = nodeID
			run.Error = err.Error()
			run.FinishedAt = time.Now().UTC()

			e.emit(ctx, sink, run, events.RunFailed{
				BaseEvent: e.baseEvent(events.RunFailedEvent, run),
				NodeID:    nodeID,
				Error:     err.Error(),
				Duration:  run.FinishedAt.Sub(run.StartedAt),
			})

			logger.Error("Graph run failed", "node_id", nodeID, "error", err)

			return run, &NodeExecutionError{NodeID: nodeID, Err: err}
		}
	}

	run.Status = models.RunStatusCompleted
	run.FinishedAt = time.Now().UTC()

	e.emit(ctx, sink, run, events.RunCompleted{
		BaseEvent: e.baseEvent(events.RunCompletedEvent, run),
		Duration:  run.FinishedAt.Sub(run.StartedAt),
	})

	logger.Info("Graph run completed", "duration", run.FinishedAt.Sub(run.StartedAt))

	return run, nil
}

func (e *Engine) runNode(ctx context.Context, g *graph.Graph, run *models.RunResult, nodeID string, sink eventbus.EventPublisher, logger *slog.Logger) error {
	runtime, ok := g.Runtime(nodeID)
	if !ok {
		return fmt.Errorf("node %s disappeared from graph during run", nodeID)
	}

	inputs, err := e.gatherInputs(g, runtime, run.Results)
	if err != nil {
		return err
	}

	var span trace.Span

	if e.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "engine.node",
			attribute.String(otelhelper.NodeIDKey, nodeID),
			attribute.String(otelhelper.NodeTypeKey, runtime.Type()))
		defer span.End()
	}

	keys := make([]string, 0, len(inputs))
	for key := range inputs {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	e.emit(ctx, sink, run, events.NodeStarted{
		BaseEvent: e.baseEvent(events.NodeStartedEvent, run),
		NodeID:    nodeID,
		InputKeys: keys,
	})

	logger.Info("Executing node", "node_id", nodeID, "node_type", runtime.Type())

	startedAt := time.Now().UTC()

	outputs, err := runtime.Execute(ctx, inputs)
	if err != nil {
		if span != nil {
			otelhelper.SetError(span, err, attribute.String(otelhelper.NodeIDKey, nodeID))
		}

		e.emit(ctx, sink, run, events.NodeFailed{
			BaseEvent:  e.baseEvent(events.NodeFailedEvent, run),
			NodeID:     nodeID,
			Error:      err.Error(),
			DurationMs: time.Since(startedAt).Milliseconds(),
		})

		return err
	}

	run.Results[nodeID] = models.NodeResult{
		NodeID:    nodeID,
		Data:      outputs,
		Status:    models.NodeStatusSuccess,
		Timestamp: time.Now().UTC(),
	}

	e.emit(ctx, sink, run, events.NodeFinished{
		BaseEvent:  e.baseEvent(events.NodeFinishedEvent, run),
		NodeID:     nodeID,
		OutputData: outputs,
		DurationMs: time.Since(startedAt).Milliseconds(),
	})

	return nil
}

// gatherInputs builds a node's input bag. For every input port the incoming
// connection (if any) is resolved and the upstream value is read from the
// recorded outputs, indexed by the source output port's name. The bag key is
// the lower-cased input port name; an unconnected optional input is simply
// absent.
func (e *Engine) gatherInputs(g *graph.Graph, runtime protocol.Node, results map[string]models.NodeResult) (map[string]any, error) {
	inputs := make(map[string]any)

	for _, input := range runtime.InputPorts() {
		conn, connected := g.IncomingConnection(input.ID)
		if !connected {
			if input.Required {
				// Validation guarantees coverage of required inputs;
				// reaching this means the graph mutated mid-run.
				return nil, fmt.Errorf("required input %s has no incoming connection", input.ID)
			}

			continue
		}

		srcNodeID, srcPortName, ok := models.ParsePortID(conn.SourcePort)
		if !ok {
			return nil, fmt.Errorf("malformed source port id %q", conn.SourcePort)
		}

		upstream, recorded := results[srcNodeID]
		if !recorded {
			return nil, fmt.Errorf("upstream node %s has no recorded output", srcNodeID)
		}

		value, present := upstream.Data[srcPortName]
		if !present {
			// The upstream node legitimately produced nothing on this
			// port (e.g. an error port that stayed silent).
			if input.Required {
				return nil, fmt.Errorf("upstream node %s produced no value on port %s", srcNodeID, srcPortName)
			}

			continue
		}

		inputs[strings.ToLower(input.Name)] = value
	}

	return inputs, nil
}

func (e *Engine) baseEvent(eventType events.EventType, run *models.RunResult) events.BaseEvent {
	return events.BaseEvent{
		ID:        "evt-" + uuid.New().String()[:8],
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		GraphID:   run.GraphID,
		RunID:     run.ID,
	}
}

func (e *Engine) emit(ctx context.Context, sink eventbus.EventPublisher, run *models.RunResult, event eventbus.Event) {
	if err := sink.Publish(ctx, run.GraphID, event); err != nil {
		e.logger.Warn("Failed to publish progress event",
			"run_id", run.ID,
			"event_type", string(event.GetType()),
			"error", err)
	}
}
