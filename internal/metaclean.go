package internal

import (
	"context"

	"github.com/diegorribeiro/metaclean/internal/ffmpeg"
	"github.com/diegorribeiro/metaclean/internal/image"
	"github.com/diegorribeiro/metaclean/internal/processor"
	"github.com/diegorribeiro/metaclean/pkg/logger"
)

var log = logger.Get("Core")

// MetaClean is the top-level handle the presentation shell talks to.
// One Process call per user action; no state is shared between calls,
// so distinct files may safely be processed from separate goroutines
// should a future shell want that.
type MetaClean interface {
	Startup(context.Context)
	Process(context.Context, string) processor.OperationResult
	Probe(context.Context, string) (*ffmpeg.ContainerInfo, error)
}

type metaCleanImpl struct {
	config        MetaCleanConfig
	processor     *processor.Processor
	videoStripper *ffmpeg.Stripper
}

// New wires the cleaning pipeline together: the in-process image
// stripper, the external-binary video stripper, and the dispatcher
// routing between them.
func New(config MetaCleanConfig) MetaClean {
	log.Emit(logger.DEBUG, "Bootstrapping MetaClean using config: %#v\n", config)

	videoStripper := ffmpeg.NewStripper(config.FfmpegConfig())
	return &metaCleanImpl{
		config:        config,
		processor:     processor.New(image.NewStripper(), videoStripper),
		videoStripper: videoStripper,
	}
}

func (mc *metaCleanImpl) Process(ctx context.Context, sourcePath string) processor.OperationResult {
	return mc.processor.Process(ctx, sourcePath)
}

// Probe exposes container inspection for shells that want to show the
// user what a cleaned file looks like (stream count, remaining tags).
func (mc *metaCleanImpl) Probe(ctx context.Context, path string) (*ffmpeg.ContainerInfo, error) {
	return mc.videoStripper.Probe(ctx, path)
}

// logEnvironment emits a startup diagnostic about the external
// transcoder. A missing binary is only a warning here; image-only
// sessions never need it, and video operations will raise the proper
// TOOL_NOT_FOUND trouble on use.
func (mc *metaCleanImpl) logEnvironment(ctx context.Context) {
	if version, err := mc.videoStripper.Version(ctx); err == nil {
		log.Emit(logger.INFO, "External transcoder available: %s\n", version)
	} else {
		log.Emit(logger.WARNING, "External transcoder unavailable (%s); video cleaning will fail until resolved\n", err.Error())
	}
}

// Startup performs one-time environment diagnostics. Optional; the
// pipeline works without it.
func (mc *metaCleanImpl) Startup(ctx context.Context) {
	mc.logEnvironment(ctx)
}
