// Package reconciler orchestrates the plan -> apply -> state-commit
// lifecycle: it drives a backend.Adapter through a dependency-ordered
// plan and keeps the state store's recorded view in sync with what
// actually succeeded.
package reconciler

import (
	"context"
	"fmt"

	"aquaform/internal/backend"
	"aquaform/internal/core"
	"aquaform/internal/graph"
	"aquaform/internal/planner"
	"aquaform/internal/state"
	"aquaform/internal/vars"
)

// Result records the outcome of one per-resource DDL operation.
type Result struct {
	ResourceID string
	TableName  string
	Kind       planner.Kind
	Err        error
}

// Reconciler wires a backend, a desired table set, and a state store
// together to drive one plan/apply/destroy run.
type Reconciler struct {
	Backend core.Backend
	Desired map[string]*core.Table
	Store   *state.Store
}

// New builds a Reconciler for the given backend, desired table set, and
// already-open state store.
func New(b core.Backend, desired map[string]*core.Table, store *state.Store) *Reconciler {
	return &Reconciler{Backend: b, Desired: desired, Store: store}
}

// Init creates an empty state file at path if one does not already
// exist. It reports whether it created the file.
func Init(path string) (created bool, err error) {
	if state.Exists(path) {
		return false, nil
	}
	s, err := state.Open(path)
	if err != nil {
		return false, err
	}
	defer s.Close()
	if err := s.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Plan computes the set of changes needed to reconcile r.Desired
// against the store's recorded view.
func (r *Reconciler) Plan() []planner.PlannedChange {
	return planner.Plan(r.Desired, r.Store.All())
}

// dependencyOrder sorts desired tables together with recorded tables
// absent from the desired set, so that delete-phase tables also appear
// in the order Apply walks.
func (r *Reconciler) dependencyOrder() ([]string, []graph.CycleWarning) {
	all := make(map[string]*core.Table, len(r.Desired))
	for id, t := range r.Desired {
		all[id] = t
	}
	for id, t := range r.Store.All() {
		if _, ok := all[id]; !ok {
			recorded := t
			all[id] = &recorded
		}
	}
	g := graph.Build(byTableName(all))
	return g.TopologicalSort()
}

// byTableName re-keys a resource_id-keyed table map by table Name, the
// key graph.Build requires for its node set and FK reference lookups
// (§4.5 operates on table names, not resource IDs).
func byTableName(tables map[string]*core.Table) map[string]*core.Table {
	byName := make(map[string]*core.Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}
	return byName
}

func (r *Reconciler) adapterFor(ctx context.Context, conn core.Connection) (backend.Adapter, error) {
	resolved := vars.ResolveConnection(conn)
	return backend.Get(r.Backend, resolved)
}

// Apply runs the full create/update/delete cycle in dependency order
// (§4.8): updates and creates proceed dependencies-first; deletes
// proceed dependents-first (reverse order), correcting the forward-order
// delete bug present in the original implementation. state.Commit is
// always called, even if ctx is canceled partway through or individual
// DDLs fail, so that progress already recorded is never lost.
func (r *Reconciler) Apply(ctx context.Context) (results []Result, err error) {
	defer func() {
		if commitErr := r.Store.Commit(); commitErr != nil {
			if err == nil {
				err = fmt.Errorf("reconciler: commit after apply: %w", commitErr)
			}
		}
	}()

	changes := r.Plan()
	order, _ := r.dependencyOrder()
	creates, updates, deletes := planner.Partition(changes)

	for _, tableName := range order {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		change, ok := updates[tableName]
		if !ok {
			continue
		}
		results = append(results, r.applyUpdate(ctx, change))
	}

	for _, tableName := range order {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		change, ok := creates[tableName]
		if !ok {
			continue
		}
		results = append(results, r.applyCreate(ctx, change))
	}

	for _, tableName := range graph.Reverse(order) {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		change, ok := deletes[tableName]
		if !ok {
			continue
		}
		results = append(results, r.applyDelete(ctx, change))
	}

	return results, nil
}

func (r *Reconciler) applyUpdate(ctx context.Context, change planner.PlannedChange) Result {
	res := Result{ResourceID: change.ResourceID, TableName: change.Table.Name, Kind: planner.Update}
	adapter, err := r.adapterFor(ctx, change.Table.Conn)
	if err != nil {
		res.Err = err
		return res
	}
	if err := adapter.Alter(ctx, change.Table, *change.Delta); err != nil {
		res.Err = err
		return res
	}
	r.Store.Put(change.ResourceID, *change.Table)
	return res
}

func (r *Reconciler) applyCreate(ctx context.Context, change planner.PlannedChange) Result {
	res := Result{ResourceID: change.ResourceID, TableName: change.Table.Name, Kind: planner.Create}
	adapter, err := r.adapterFor(ctx, change.Table.Conn)
	if err != nil {
		res.Err = err
		return res
	}
	if err := adapter.Create(ctx, change.Table); err != nil {
		res.Err = err
		return res
	}
	r.Store.Put(change.ResourceID, *change.Table)
	return res
}

func (r *Reconciler) applyDelete(ctx context.Context, change planner.PlannedChange) Result {
	res := Result{ResourceID: change.ResourceID, TableName: change.TableName, Kind: planner.Delete}
	adapter, err := r.adapterFor(ctx, change.RecordedConn)
	if err != nil {
		res.Err = err
		return res
	}
	if err := adapter.Drop(ctx, change.TableName); err != nil {
		res.Err = err
		return res
	}
	r.Store.Remove(change.ResourceID)
	return res
}

// Destroy drops one resource (if resourceID is non-nil) or every known
// resource - desired union recorded - in reverse topological order
// (dependents before dependencies), correcting the same forward-order
// bug Apply corrects. state.Commit is always called at the end.
func (r *Reconciler) Destroy(ctx context.Context, resourceID *string) (results []Result, err error) {
	defer func() {
		if commitErr := r.Store.Commit(); commitErr != nil {
			if err == nil {
				err = fmt.Errorf("reconciler: commit after destroy: %w", commitErr)
			}
		}
	}()

	if resourceID != nil {
		rec, ok := r.Store.Get(*resourceID)
		if !ok {
			return nil, fmt.Errorf("reconciler: %w: %s", core.ErrResourceNotFound, *resourceID)
		}
		res := Result{ResourceID: *resourceID, TableName: rec.Name, Kind: planner.Delete}
		adapter, err := r.adapterFor(ctx, rec.Conn)
		if err != nil {
			res.Err = err
			return []Result{res}, nil
		}
		if err := adapter.Drop(ctx, rec.Name); err != nil {
			res.Err = err
			return []Result{res}, nil
		}
		r.Store.Remove(*resourceID)
		return []Result{res}, nil
	}

	all := make(map[string]*core.Table, len(r.Desired))
	for id, t := range r.Desired {
		all[id] = t
	}
	recorded := r.Store.All()
	for id, t := range recorded {
		if _, ok := all[id]; !ok {
			cloned := t
			all[id] = &cloned
		}
	}

	order, _ := graph.Build(byTableName(all)).TopologicalSort()

	for _, tableName := range graph.Reverse(order) {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		resourceID, table := findByName(all, tableName)
		if resourceID == "" {
			continue
		}
		conn := table.Conn
		if rec, ok := recorded[resourceID]; ok {
			conn = rec.Conn
		}

		res := Result{ResourceID: resourceID, TableName: tableName, Kind: planner.Delete}
		adapter, err := r.adapterFor(ctx, conn)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		if err := adapter.Drop(ctx, tableName); err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		r.Store.Remove(resourceID)
		results = append(results, res)
	}

	return results, nil
}

func findByName(tables map[string]*core.Table, name string) (string, *core.Table) {
	for id, t := range tables {
		if t.Name == name {
			return id, t
		}
	}
	return "", nil
}
