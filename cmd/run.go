package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.com/chit-chat/kris/internal/agent"
	"gitlab.com/chit-chat/kris/internal/api"
	"gitlab.com/chit-chat/kris/internal/configs"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
	"gitlab.com/chit-chat/kris/internal/history"
	"gitlab.com/chit-chat/kris/internal/imagecache"
	"gitlab.com/chit-chat/kris/internal/s3"
	"gitlab.com/chit-chat/kris/internal/ui"
	"gitlab.com/chit-chat/kris/internal/workflows"
)

var (
	runGPU          string
	runImage        string
	runRequirements string
	runRoot         string
)

func init() {
	runCmd.Flags().StringVar(&runGPU, "gpu", "",
		`number of GPUs; --gpu="2x4" will run the job on two pods with 4 GPUs each`)
	runCmd.Flags().StringVar(&runImage, "image", "", "set custom image")
	runCmd.Flags().StringVar(&runRequirements, "requirements", "",
		"path to requirements.txt; will build a custom image")
	runCmd.Flags().StringVar(&runRoot, "root", "",
		"custom project root (default: parent directory of SCRIPT)")
}

// resetRunCommandState resets the run command's global state for testing.
func resetRunCommandState() {
	runGPU = ""
	runImage = ""
	runRequirements = ""
	runRoot = ""
}

var runCmd = &cobra.Command{
	Use:   "run SCRIPT [ARGS...]",
	Short: "Run script on Christofari",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		script, scriptArgs := args[0], args[1:]

		executable, err := filepath.Abs(script)
		if err != nil {
			return err
		}
		if _, err := os.Stat(executable); err != nil {
			return fmt.Errorf("%s: %w", executable, kerrors.ErrScriptNotFound)
		}

		workers, gpus, err := parseGPU(runGPU)
		if err != nil {
			return err
		}

		root := runRoot
		if root == "" {
			root = filepath.Dir(executable)
		} else {
			if root, err = filepath.Abs(root); err != nil {
				return err
			}
		}

		if runRequirements != "" && runImage != "" {
			return fmt.Errorf("don't set --image and --requirements together")
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}
		cfg, err := configs.LoadConfig()
		if err != nil {
			return err
		}

		image := runImage
		if runRequirements != "" {
			fmt.Println("Building image...")
			result, err := workflows.EnsureImage(ctx, workflows.ImageOptions{
				Client:           client,
				Config:           cfg,
				Cache:            imagecache.New(),
				RequirementsPath: runRequirements,
				Logger:           Logger,
			})
			if err != nil {
				return err
			}
			image = result.Image
		}

		fmt.Println("Uploading agent...")
		agentPath, cleanup, err := agent.WriteTemp()
		if err != nil {
			return err
		}
		defer cleanup()
		agentUpload, err := workflows.UploadLocalToNFS(ctx, workflows.UploadOptions{
			Client:    client,
			Config:    cfg,
			LocalPath: agentPath,
			Logger:    Logger,
		})
		if err != nil {
			return err
		}

		fmt.Println("Uploading " + ui.Path.Sprint(root) + "...")
		archiveUpload, err := workflows.UploadLocalToNFS(ctx, workflows.UploadOptions{
			Client:    client,
			Config:    cfg,
			LocalPath: root,
			Logger:    Logger,
		})
		if err != nil {
			return err
		}

		fmt.Println("Handling args...")
		// The agent receives the argument count first, then the arguments,
		// with s3:// references rewritten to their NFS locations.
		finalArgs := make([]string, 0, len(scriptArgs)+1)
		finalArgs = append(finalArgs, strconv.Itoa(len(scriptArgs)))
		for _, arg := range scriptArgs {
			if s3.IsPath(arg) {
				fmt.Println("  - " + arg + " ...")
				path, err := s3.ParsePath(cfg, arg)
				if err != nil {
					return err
				}
				nfsPath, err := workflows.TransferToNFS(ctx, client, path, Logger)
				if err != nil {
					return err
				}
				arg = workflows.NFSHome + "/" + nfsPath
			}
			finalArgs = append(finalArgs, arg)
		}

		executablePath, err := filepath.Rel(root, executable)
		if err != nil {
			return err
		}

		fmt.Println("Launching job...")
		scriptLine := agentUpload.NFSPath + " " +
			workflows.NFSHome + "/" + archiveUpload.NFSPath + " " +
			executablePath + " " + strings.Join(finalArgs, " ")
		job, err := client.Run(ctx, api.RunSpec{
			Script:    scriptLine,
			BaseImage: image,
			Workers:   workers,
			GPUs:      gpus,
		})
		if err != nil {
			return err
		}
		history.Log(history.Entry{
			Operation: "run",
			JobName:   job.Name,
			Script:    script,
			Image:     image,
		})
		fmt.Println(ui.Success.Sprintf("Job launched: %s", job.Name))

		fmt.Println(ui.Info.Sprint("Waiting for logs... You can kill kris safely now."))
		stream, err := client.WaitForLogs(ctx, job.Name, false)
		if err != nil {
			return err
		}
		defer stream.Close()

		_, err = io.Copy(os.Stdout, stream)
		return err
	},
}

// parseGPU parses the --gpu flag: either "N" (one pod, N GPUs) or "WxN"
// (W pods, N GPUs each).
func parseGPU(gpu string) (workers, gpus int, err error) {
	workers, gpus = 1, 1
	if gpu == "" {
		return workers, gpus, nil
	}

	parts := strings.SplitN(gpu, "x", 2)
	if len(parts) == 1 {
		gpus, err = strconv.Atoi(parts[0])
	} else {
		workers, err = strconv.Atoi(parts[0])
		if err == nil {
			gpus, err = strconv.Atoi(parts[1])
		}
	}
	if err != nil || workers < 1 || gpus < 1 {
		return 0, 0, fmt.Errorf("invalid GPU format: %s", gpu)
	}
	return workers, gpus, nil
}
