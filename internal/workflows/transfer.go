package workflows

import (
	"context"
	"fmt"

	"gitlab.com/chit-chat/kris/internal/api"
	"gitlab.com/chit-chat/kris/internal/configs"
	logger "gitlab.com/chit-chat/kris/internal/logging"
	"gitlab.com/chit-chat/kris/internal/s3"
)

// TransferOptions configures a copy between S3 and NFS.
type TransferOptions struct {
	Client *api.Client
	Config *configs.Config

	// Src and Dst name the endpoints; exactly one must be an s3:// path,
	// the other is an NFS path.
	Src string
	Dst string

	Logger logger.Logger
}

// TransferResult identifies the submitted copy job.
type TransferResult struct {
	JobName string
	Src     string
	Dst     string
}

// Transfer submits a platform service job copying between S3 and NFS. The
// s3:// endpoint is resolved against the local bucket registry and its
// credentials are registered with the platform first.
func Transfer(ctx context.Context, opts TransferOptions) (*TransferResult, error) {
	srcIsS3 := s3.IsPath(opts.Src)
	dstIsS3 := s3.IsPath(opts.Dst)
	if srcIsS3 == dstIsS3 {
		return nil, fmt.Errorf("exactly one of src and dst should be an S3 path")
	}

	src, dst := opts.Src, opts.Dst
	var path *s3.Path
	var err error
	if srcIsS3 {
		path, err = s3.ParsePath(opts.Config, src)
		if err != nil {
			return nil, err
		}
		src = path.String()
	} else {
		path, err = s3.ParsePath(opts.Config, dst)
		if err != nil {
			return nil, err
		}
		dst = path.String()
	}

	bucket := path.Bucket
	if err := opts.Client.SetS3Credentials(ctx, bucket.Namespace, bucket.AccessKeyID, bucket.SecretAccessKey); err != nil {
		return nil, err
	}

	opts.Logger.Debugf("Transferring %s -> %s", src, dst)
	job, err := opts.Client.TransferFile(ctx, src, dst)
	if err != nil {
		return nil, err
	}
	return &TransferResult{JobName: job.Name, Src: src, Dst: dst}, nil
}
