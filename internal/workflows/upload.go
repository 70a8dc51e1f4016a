package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gitlab.com/chit-chat/kris/internal/api"
	"gitlab.com/chit-chat/kris/internal/configs"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
	logger "gitlab.com/chit-chat/kris/internal/logging"
	"gitlab.com/chit-chat/kris/internal/s3"
	"gitlab.com/chit-chat/kris/internal/utils"
)

// NFSHome is where the cluster mounts the user's NFS storage.
const NFSHome = "/home/jovyan"

// UploadOptions configures an upload to the cluster.
type UploadOptions struct {
	Client *api.Client
	Config *configs.Config

	// LocalPath is a file or directory. Directories are zipped first.
	LocalPath string

	Logger logger.Logger
}

// UploadResult describes where the upload landed.
type UploadResult struct {
	// S3Path is the object the upload was stored under.
	S3Path *s3.Path

	// NFSPath is the file's location relative to the NFS home directory.
	NFSPath string
}

// UploadLocalToNFS moves a local file or directory to the cluster's NFS
// storage: upload to the default S3 bucket, then a platform transfer job
// from S3 to NFS.
func UploadLocalToNFS(ctx context.Context, opts UploadOptions) (*UploadResult, error) {
	s3Path, err := LocalToS3(ctx, opts)
	if err != nil {
		return nil, err
	}

	nfsPath, err := TransferToNFS(ctx, opts.Client, s3Path, opts.Logger)
	if err != nil {
		return nil, err
	}

	return &UploadResult{S3Path: s3Path, NFSPath: nfsPath}, nil
}

// LocalToS3 uploads a local file or directory to the default bucket.
// Directories are archived as zip before upload.
func LocalToS3(ctx context.Context, opts UploadOptions) (*s3.Path, error) {
	bucket, err := s3.FromConfig(opts.Config, "")
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(opts.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", opts.LocalPath, err)
	}

	if !info.IsDir() {
		opts.Logger.Debugf("Uploading %q to S3...", opts.LocalPath)
		return bucket.UploadLocalFile(ctx, opts.LocalPath)
	}

	tmp, err := os.MkdirTemp("", "kris-archive")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	archivePath := filepath.Join(tmp, "archive.zip")
	opts.Logger.Debugf("Compressing %q...", opts.LocalPath)
	if err := utils.ZipDirectory(opts.LocalPath, archivePath); err != nil {
		return nil, err
	}

	opts.Logger.Debugf("Uploading %q to S3...", opts.LocalPath)
	return bucket.UploadLocalFile(ctx, archivePath)
}

// TransferToNFS copies an S3 object to NFS through a platform service job
// and returns the NFS path relative to the NFS home directory. Objects
// already present on NFS are not transferred again; object names are
// content-addressed, so an existing file has the right content.
func TransferToNFS(ctx context.Context, client *api.Client, s3Path *s3.Path, log logger.Logger) (string, error) {
	nfsPath := s3Path.NFSPath()
	log.Debugf("Transferring from S3 to NFS: %s...", nfsPath)

	exists, err := client.NFSFileExists(ctx, NFSHome+"/"+nfsPath)
	if err != nil {
		return "", err
	}
	if exists {
		log.Debugf("%s found in cache", nfsPath)
		return nfsPath, nil
	}

	bucket := s3Path.Bucket
	if err := client.SetS3Credentials(ctx, bucket.Namespace, bucket.AccessKeyID, bucket.SecretAccessKey); err != nil {
		return "", err
	}

	job, err := client.TransferFile(ctx, s3Path.String(), nfsPath)
	if err != nil {
		return "", err
	}

	status, err := client.WaitForJob(ctx, job.Name, true)
	if err != nil {
		return "", err
	}
	if status.Status != api.JobStatusComplete {
		return "", fmt.Errorf("transfer job %s finished with status %s: %w",
			job.Name, status.Status, kerrors.ErrJobFailed)
	}

	log.Debugf("Upload succeeded: %s", nfsPath)
	return nfsPath, nil
}
