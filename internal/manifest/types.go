package manifest

// InitialVersion is the version every new project starts at.
const InitialVersion = "0.0.1"

// StartScript runs the rendered server entry point.
const StartScript = "node server.js"

// PackageManifest is the package.json written into a new project. Fields are
// declared in the order they appear in the file.
type PackageManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Private      bool              `json:"private"`
	Scripts      Scripts           `json:"scripts"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Scripts holds npm run scripts.
type Scripts struct {
	Start string `json:"start"`
}

// New returns the manifest for a freshly scaffolded project. Dependencies
// are left for the package manager to record.
func New(name string) *PackageManifest {
	return &PackageManifest{
		Name:    name,
		Version: InitialVersion,
		Private: true,
		Scripts: Scripts{Start: StartScript},
	}
}
