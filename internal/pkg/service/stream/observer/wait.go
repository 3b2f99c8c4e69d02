package observer

import (
	"context"

	"github.com/streamforge/streamforge/internal/pkg/service/stream/definition"
	"github.com/streamforge/streamforge/internal/pkg/service/stream/streampath"
	"github.com/streamforge/streamforge/internal/pkg/utils/errors"
)

// WaitForCreate polls until the stream definition node exists.
func (o *Observer) WaitForCreate(ctx context.Context, streamName string) error {
	return o.waitForExistence(ctx, streamName, true)
}

// WaitForDestroy polls until the stream definition node is gone.
func (o *Observer) WaitForDestroy(ctx context.Context, streamName string) error {
	return o.waitForExistence(ctx, streamName, false)
}

func (o *Observer) waitForExistence(ctx context.Context, streamName string, create bool) error {
	deadline := o.clock.Now().Add(o.config.WaitTimeout)
	for {
		stat, err := o.ns.Stat(ctx, streampath.Stream(streamName))
		if err != nil {
			return err
		}
		if stat.Exists == create {
			return nil
		}

		// Historical contract quirk: an expired create/destroy wait is not
		// an error, the caller observes the unchanged state on its own.
		if !o.clock.Now().Before(deadline) {
			return nil
		}
		if err := o.sleep(ctx); err != nil {
			return err
		}
	}
}

// WaitForDeploy polls until every module of the stream has at least one
// deployment, in deployment order, the source first.
func (o *Observer) WaitForDeploy(ctx context.Context, streamName string) error {
	pending, err := o.moduleDeploymentPaths(streamName)
	if err != nil {
		return err
	}

	deadline := o.clock.Now().Add(o.config.WaitTimeout)
	for {
		remaining := pending[:0]
		for _, path := range pending {
			stat, err := o.ns.Stat(ctx, path)
			if err != nil {
				return DeploymentCheckError{StreamName: streamName, err: err}
			}
			if !stat.Exists || stat.NumChildren == 0 {
				remaining = append(remaining, path)
			}
			if err := o.sleep(ctx); err != nil {
				return err
			}
		}

		pending = remaining
		if len(pending) == 0 {
			return nil
		}
		if !o.clock.Now().Before(deadline) {
			return DeploymentTimeoutError{StreamName: streamName}
		}
	}
}

// WaitForUndeploy polls until the stream node is gone or has no module
// deployments left.
func (o *Observer) WaitForUndeploy(ctx context.Context, streamName string) error {
	deadline := o.clock.Now().Add(o.config.WaitTimeout)
	for {
		stat, err := o.ns.Stat(ctx, streampath.Stream(streamName))
		if err != nil {
			return UndeploymentCheckError{StreamName: streamName, err: err}
		}
		if !stat.Exists || stat.NumChildren == 0 {
			return nil
		}

		if !o.clock.Now().Before(deadline) {
			return UndeploymentTimeoutError{StreamName: streamName}
		}
		if err := o.sleep(ctx); err != nil {
			return err
		}
	}
}

func (o *Observer) moduleDeploymentPaths(streamName string) ([]string, error) {
	props, found := o.cache.Lookup(streamName)
	if !found {
		return nil, definition.NewTopologyResolutionError(streamName, errors.New("stream properties are not cached"))
	}

	modules, err := o.resolver.Resolve(streamName, props)
	if err != nil {
		var typed definition.TopologyResolutionError
		if errors.As(err, &typed) {
			return nil, err
		}
		return nil, definition.NewTopologyResolutionError(streamName, err)
	}

	paths := make([]string, 0, len(modules))
	for _, module := range modules {
		paths = append(paths, streampath.ModuleDeployment(streamName, string(module.Type), module.Label))
	}
	return paths, nil
}

func (o *Observer) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-o.clock.After(o.config.PollInterval):
		return nil
	}
}
