package chainlens

var (
	version = "0.1.0" // automatically set semantic version number
	commit  string    // automatically set git commit hash

	Version = func() string {
		if commit != "" {
			return version + "-" + commit
		}
		return version
	}()
)
