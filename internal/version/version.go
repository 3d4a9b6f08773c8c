package version

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// AppName is sent as the app query parameter on every DVID request.
const AppName = "marktips"

// AuthorshipMarker appears in the comment of every to-do item this tool has
// ever placed, including the releases that predate the action property.
const AuthorshipMarker = "placed by marktips"

// Comment returns the comment text written on new to-do items.
func Comment() string {
	return AuthorshipMarker + " v" + Version
}
