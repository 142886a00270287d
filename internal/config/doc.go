// Package config resolves command settings from kagglefetch.yaml, .env files,
// kaggle.json credentials and the process environment.
package config
