package workflows

import (
	"context"
	"fmt"

	"gitlab.com/chit-chat/kris/internal/api"
	"gitlab.com/chit-chat/kris/internal/configs"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
	"gitlab.com/chit-chat/kris/internal/imagecache"
	logger "gitlab.com/chit-chat/kris/internal/logging"
)

// ImageOptions configures a custom image build.
type ImageOptions struct {
	Client *api.Client
	Config *configs.Config
	Cache  *imagecache.Cache

	// RequirementsPath is the local requirements file the image is built from.
	RequirementsPath string

	Logger logger.Logger
}

// ImageResult identifies the image to run jobs on.
type ImageResult struct {
	Image     string
	FromCache bool
}

// EnsureImage returns an image built from the requirements file, building
// one only when the cache has no image for the file's current content.
func EnsureImage(ctx context.Context, opts ImageOptions) (*ImageResult, error) {
	if image, ok, err := opts.Cache.Lookup(opts.RequirementsPath); err != nil {
		return nil, err
	} else if ok {
		opts.Logger.Debugf("Image was found in cache: %s", image)
		return &ImageResult{Image: image, FromCache: true}, nil
	}

	upload, err := UploadLocalToNFS(ctx, UploadOptions{
		Client:    opts.Client,
		Config:    opts.Config,
		LocalPath: opts.RequirementsPath,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	build, err := opts.Client.BuildImage(ctx, upload.NFSPath)
	if err != nil {
		return nil, err
	}

	status, err := opts.Client.WaitForJob(ctx, build.JobName, true)
	if err != nil {
		return nil, err
	}
	if status.Status == api.JobStatusFailed {
		return nil, fmt.Errorf("image build job %s: %w", build.JobName, kerrors.ErrJobFailed)
	}

	if err := opts.Cache.Store(opts.RequirementsPath, build.Image); err != nil {
		opts.Logger.Warnf("Failed to cache image id: %v", err)
	}
	return &ImageResult{Image: build.Image}, nil
}
