package executor

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-units"
	"go.uber.org/zap"
)

// SandboxConfig describes the container each tool runs in.
type SandboxConfig struct {
	Image string

	// WorkDir is the working directory inside the container. It and every
	// entry of Mounts are bind-mounted at the same path as on the host, so
	// artifact paths mean the same thing on both sides.
	WorkDir string
	Mounts  []string

	UID int
	GID int

	Limits ResourceLimits
}

type ResourceLimits struct {
	Core    int64
	Nofile  int64
	NProc   int64
	MemLock int64
	CPUTime int64 // sec
	Memory  int64 // bytes
	FSize   int64
}

func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{
		Core:    0,                 // Process can NOT create CORE file
		Nofile:  512,               // Process can open 512 files
		NProc:   64,                // Process can create processes to 64
		MemLock: 1024,              // Process can lock 1024 Bytes by mlock(2)
		CPUTime: 30,                // sec
		Memory:  512 * 1024 * 1024, // bytes
		FSize:   64 * 1024 * 1024,  // Process can write a file of only 64MiB
	}
}

// SandboxExecutor runs tools inside a docker container built from a
// toolchain image, one container per command.
type SandboxExecutor struct {
	config *SandboxConfig
	logger *zap.Logger
}

var _ Executor = (*SandboxExecutor)(nil)

func NewSandboxExecutor(config *SandboxConfig, logger *zap.Logger) *SandboxExecutor {
	return &SandboxExecutor{
		config: config,
		logger: logger,
	}
}

func makeULimit(name string, lim int64) *units.Ulimit {
	return &units.Ulimit{
		Name: name,
		Soft: lim,
		Hard: lim,
	}
}

func (e *SandboxExecutor) containerConfig(args []string) *container.Config {
	return &container.Config{
		Image:           e.config.Image,
		Cmd:             args,
		WorkingDir:      e.config.WorkDir,
		User:            fmt.Sprintf("%d:%d", e.config.UID, e.config.GID),
		AttachStdout:    true,
		AttachStderr:    true,
		NetworkDisabled: true,
		StopSignal:      "SIGKILL",
	}
}

func (e *SandboxExecutor) hostConfig() *container.HostConfig {
	seen := make(map[string]bool)
	var binds []string
	for _, dir := range append([]string{e.config.WorkDir}, e.config.Mounts...) {
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		binds = append(binds, dir+":"+dir)
	}

	lim := e.config.Limits
	return &container.HostConfig{
		Binds:          binds,
		ReadonlyRootfs: true,
		Privileged:     false,
		Tmpfs: map[string]string{
			"/tmp": "",
		},
		Resources: container.Resources{
			Memory: lim.Memory, // bytes
			Ulimits: []*units.Ulimit{
				makeULimit("core", lim.Core),
				makeULimit("nofile", lim.Nofile),
				makeULimit("nproc", lim.NProc),
				makeULimit("memlock", lim.MemLock),
				makeULimit("cpu", lim.CPUTime),
				makeULimit("fsize", lim.FSize),
			},
		},
	}
}

func (e *SandboxExecutor) Run(ctx context.Context, args []string) (*Execution, error) {
	name, _, err := splitCommand(args)
	if err != nil {
		return nil, err
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, &SpawnError{Command: name, Err: errors.Wrap(err, "failed to create docker client")}
	}
	defer cli.Close()

	resp, err := cli.ContainerCreate(ctx, e.containerConfig(args), e.hostConfig(), nil, nil, "")
	if err != nil {
		return nil, &SpawnError{Command: name, Err: errors.Wrapf(err, "failed to create container from image %s", e.config.Image)}
	}
	containerID := resp.ID
	e.logger.Debug("container created", zap.String("id", containerID), zap.String("image", e.config.Image))

	// Removal must happen even when ctx has been cancelled.
	cleanupCtx := context.WithoutCancel(ctx)
	defer func() {
		err := cli.ContainerRemove(cleanupCtx, containerID, types.ContainerRemoveOptions{Force: true})
		if err != nil {
			e.logger.Warn("failed to remove container", zap.String("id", containerID), zap.Error(err))
		}
	}()

	hijack, err := cli.ContainerAttach(ctx, containerID, types.ContainerAttachOptions{
		Stream: true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return nil, &SpawnError{Command: name, Err: errors.Wrap(err, "failed to attach container")}
	}
	defer hijack.Close()

	var stdout, stderr bytes.Buffer
	copyDone := make(chan error, 1)
	go func() {
		_, err := stdcopy.StdCopy(&stdout, &stderr, hijack.Reader)
		copyDone <- err
	}()

	// Ask for the exit before starting, or a fast tool may exit unobserved.
	respCh, errCh := cli.ContainerWait(ctx, containerID, container.WaitConditionNextExit)

	if err := cli.ContainerStart(ctx, containerID, types.ContainerStartOptions{}); err != nil {
		return nil, &SpawnError{Command: name, Err: errors.Wrap(err, "failed to start container")}
	}

	// Realtime checking apart from cgroup limits to prevent a tool sleeping forever.
	var killed atomic.Bool
	done := make(chan struct{})
	defer close(done)
	go func() {
		const extensionSec = 3
		t := time.NewTimer(time.Duration(e.config.Limits.CPUTime+extensionSec) * time.Second)
		defer t.Stop()

		select {
		case <-done:
		case <-t.C:
			killed.Store(true)
			immediate := 0
			err := cli.ContainerStop(cleanupCtx, containerID, container.StopOptions{
				Timeout: &immediate,
				Signal:  "SIGKILL",
			})
			if err != nil {
				e.logger.Warn("failed to stop container", zap.String("id", containerID), zap.Error(err))
			}
			e.logger.Warn("tool timed out", zap.String("command", name))
		}
	}()

	var status container.WaitResponse
	select {
	case status = <-respCh:
	case err := <-errCh:
		return nil, errors.Wrapf(err, "failed to wait for container running '%s'", name)
	}
	if status.Error != nil {
		return nil, errors.Newf("container running '%s' failed: %s", name, status.Error.Message)
	}

	if err := <-copyDone; err != nil {
		e.logger.Warn("failed to copy container output", zap.String("id", containerID), zap.Error(err))
	}

	ex := &Execution{
		Stdout: lossy(stdout.Bytes()),
		Stderr: lossy(stderr.Bytes()),
	}
	if killed.Load() {
		ex.Signal = "SIGKILL"
	} else {
		code := int(status.StatusCode)
		ex.ExitCode = &code
	}

	return ex, nil
}
