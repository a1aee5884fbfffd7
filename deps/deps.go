package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL    = "https://mpv.io/installation/"
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
)

// Binary is an external program trimstrip shells out to.
type Binary struct {
	Name       string
	InstallURL string
	// Purpose is shown by the doctor command.
	Purpose string
}

var (
	Mpv     = Binary{Name: "mpv", InstallURL: MpvInstallURL, Purpose: "video playback"}
	Ffmpeg  = Binary{Name: "ffmpeg", InstallURL: FfmpegInstallURL, Purpose: "thumbnail extraction"}
	Ffprobe = Binary{Name: "ffprobe", InstallURL: FfmpegInstallURL, Purpose: "duration and frame size"}
)

// All lists every binary in the order doctor reports them.
var All = []Binary{Mpv, Ffmpeg, Ffprobe}

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Locate returns the resolved path of b or a *DependencyError.
func Locate(b Binary) (string, error) {
	path, err := lookPath(b.Name)
	if err != nil {
		return "", &DependencyError{Name: b.Name, InstallURL: b.InstallURL}
	}
	return path, nil
}

// Check reports whether b is installed and available in PATH.
func Check(b Binary) error {
	_, err := Locate(b)
	return err
}

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error {
	return Check(Mpv)
}

// CheckFfmpeg checks if ffmpeg is installed and available in PATH
func CheckFfmpeg() error {
	return Check(Ffmpeg)
}

// CheckFfprobe checks if ffprobe is installed and available in PATH
func CheckFfprobe() error {
	return Check(Ffprobe)
}

// CheckAll checks all dependencies and returns a slice of errors for missing ones
func CheckAll() []error {
	var errs []error
	for _, b := range All {
		if err := Check(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
