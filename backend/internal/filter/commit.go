package filter

import (
	"fmt"
	"iter"
	"path/filepath"

	"vincit.fi/picture-triage/api"
	"vincit.fi/picture-triage/api/apitype"
	"vincit.fi/picture-triage/backend/internal/util"
	"vincit.fi/picture-triage/common/logger"
)

const commitProgressName = "Moving images"

type moveOperation struct {
	imageFile *apitype.ImageFile
	targetDir string
}

func (s moveOperation) String() string {
	return fmt.Sprintf("Move '%s' to '%s'", s.imageFile.Path(), s.targetDir)
}

// CommitService moves saved pictures into <root>/save and deleted ones into
// <root>/delete.
type CommitService struct {
	progressReporter api.ProgressReporter
}

var _ api.Committer = (*CommitService)(nil)

func NewCommitService(progressReporter api.ProgressReporter) *CommitService {
	if progressReporter == nil {
		progressReporter = api.NoopProgressReporter{}
	}
	return &CommitService{
		progressReporter: progressReporter,
	}
}

func (s *CommitService) Commit(root string, saved iter.Seq[*apitype.ImageFile], deleted iter.Seq[*apitype.ImageFile]) (*apitype.CommitReport, error) {
	saveDir := filepath.Join(root, apitype.SaveDirName)
	deleteDir := filepath.Join(root, apitype.DeleteDirName)

	for _, dir := range []string{saveDir, deleteDir} {
		if err := util.MakeDirectoriesIfNotExist(root, dir); err != nil {
			logger.Error.Printf("Could not create directory '%s': %s", dir, err)
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	var operations []moveOperation
	for imageFile := range saved {
		operations = append(operations, moveOperation{imageFile: imageFile, targetDir: saveDir})
	}
	savedCount := len(operations)
	for imageFile := range deleted {
		operations = append(operations, moveOperation{imageFile: imageFile, targetDir: deleteDir})
	}

	report := &apitype.CommitReport{Root: root}
	total := len(operations)
	logger.Info.Printf("Committing %d saved and %d deleted images in '%s'", savedCount, total-savedCount, root)
	s.progressReporter.Update(commitProgressName, 0, total)

	for i, operation := range operations {
		logger.Debug.Println(operation)
		if _, err := util.MoveFile(operation.imageFile.Path(), operation.targetDir); err != nil {
			logger.Error.Printf("Could not move '%s': %s", operation.imageFile.Path(), err)
			report.Failed = append(report.Failed, apitype.CommitFailure{
				ImageFile: operation.imageFile,
				Err:       err,
			})
		} else if operation.targetDir == saveDir {
			report.Saved++
		} else {
			report.Deleted++
		}
		s.progressReporter.Update(commitProgressName, i+1, total)
	}

	if len(report.Failed) > 0 {
		logger.Warn.Printf("%d images could not be moved", len(report.Failed))
	}
	logger.Info.Printf("Moved %d images", report.Moved())
	return report, nil
}
