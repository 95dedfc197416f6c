package deltalog

import (
	"fmt"
	"os"
	"path/filepath"
)

// VersionAsOf returns the greatest version whose commit timestamp is
// less than or equal to timestampMs. Falls back to the latest version
// when no commitInfo timestamps are present in the log, and to the
// earliest version when every timestamped commit is later than
// timestampMs (best effort; the spec does not mandate precise timestamp
// resolution).
func VersionAsOf(storageRoot string, timestampMs int64) (int64, error) {
	logDir := filepath.Join(storageRoot, logDirName)
	versions, err := listVersions(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrCorruptLog, err)
	}
	if len(versions) == 0 {
		return 0, nil
	}

	best := versions[0]
	sawTimestamp := false
	for _, v := range versions {
		acts, err := readVersionFile(logDir, v)
		if err != nil {
			return 0, fmt.Errorf("%w: version %d: %v", ErrCorruptLog, v, err)
		}
		ts := commitTimestamp(acts)
		if ts == 0 {
			continue
		}
		sawTimestamp = true
		if ts <= timestampMs {
			best = v
		}
	}
	if !sawTimestamp {
		return versions[len(versions)-1], nil
	}
	return best, nil
}
