// Package ordering holds the reorder contract for the video list: the server side assignment of
// 1-based positions and the list moves the admin clients perform before submitting a new order.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	ErrEmpty     = errors.New("video list is empty")
	ErrBlankID   = errors.New("video list contains a blank id")
	ErrDuplicate = errors.New("video list contains a duplicate id")
)

// DefaultConcurrency bounds the number of in-flight order updates.
const DefaultConcurrency = 8

// Assigner persists one order value and reports how many rows it changed.
type Assigner interface {
	SetOrder(id string, order int) (int64, error)
}

type Failure struct {
	ID  string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.ID, f.Err)
}

// Result summarizes an Apply call. Updated < Requested means some ids matched no row
// or failed; Failures lists only the ones that errored.
type Result struct {
	Requested int
	Updated   int
	Failures  []Failure
}

func (r Result) Complete() bool {
	return len(r.Failures) == 0 && r.Updated == r.Requested
}

func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, f.Error())
	}
	return out
}

func Validate(ids []string) error {
	if len(ids) == 0 {
		return ErrEmpty
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return ErrBlankID
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Apply sets the order of ids[i] to i+1. Each update is independent: there is no transaction,
// and a failed update leaves the others in place.
func Apply(ctx context.Context, a Assigner, ids []string, concurrency int) (Result, error) {
	if err := Validate(ids); err != nil {
		return Result{}, err
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	rows := make([]int64, len(ids))
	errs := make([]error, len(ids))

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			rows[i], errs[i] = a.SetOrder(id, i+1)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Requested: len(ids)}
	for i, id := range ids {
		if errs[i] != nil {
			res.Failures = append(res.Failures, Failure{ID: id, Err: errs[i]})
			continue
		}
		if rows[i] > 0 {
			res.Updated++
		}
	}
	return res, nil
}
