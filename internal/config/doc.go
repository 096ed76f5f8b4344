// Package config manages tool settings stored at ~/.emonic/config.yaml and
// EMONIC_* environment variables: output pacing, log level and format, the
// Python interpreter used by runserver, and the exclusion patterns applied
// when copying a production build.
package config
