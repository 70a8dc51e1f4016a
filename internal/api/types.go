package api

// envelope is the common part of every API response.
type envelope struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// Job is a single entry of a job listing.
type Job struct {
	Name      string `json:"job_name"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// JobStatus describes the state of a job. Regular jobs report stage
// timestamps; service jobs only report Status.
type JobStatus struct {
	envelope

	Name        string `json:"job_name"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
	PendingAt   int64  `json:"pending_at"`
	RunningAt   int64  `json:"running_at"`
	CompletedAt int64  `json:"completed_at"`
}

// Done reports whether the job has finished.
func (s *JobStatus) Done(service bool) bool {
	if service {
		return s.Status == JobStatusComplete || s.Status == JobStatusFailed
	}
	return s.CompletedAt > 0
}

// Service job terminal states.
const (
	JobStatusComplete = "Complete"
	JobStatusFailed   = "Failed"
)

// JobInfo identifies a freshly submitted job.
type JobInfo struct {
	envelope

	Name string `json:"job_name"`
}

// ImageBuild describes a submitted image build job.
type ImageBuild struct {
	envelope

	JobName string `json:"job_name"`
	Image   string `json:"image"`
}

// NFSFile is a single entry of an NFS directory listing.
type NFSFile struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

// NFSListing is the result of a storage list service job.
type NFSListing struct {
	envelope

	Files []NFSFile `json:"ls"`
}

// RunSpec describes a job submission.
type RunSpec struct {
	// Script is the command line executed on the cluster, relative to the
	// NFS home directory.
	Script string

	// BaseImage overrides the default training image.
	BaseImage string

	Workers int
	GPUs    int
}

type authResponse struct {
	envelope

	Token struct {
		AccessToken string `json:"access_token"`
	} `json:"token"`
}

type jobsResponse struct {
	envelope

	Jobs []Job `json:"jobs"`
}
