// Package config manages user-level settings stored at ~/.suspenders/config.yaml.
// Keys stored here become the defaults for "suspenders new" options, so a
// developer who always picks mysql can say so once.
package config
