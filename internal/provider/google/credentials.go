// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package google

import (
	"context"
	"os"

	"github.com/juju/errors"
	"golang.org/x/oauth2/google"
)

// Scopes are the OAuth scopes requested for the blocking service.
var Scopes = []string{
	"https://www.googleapis.com/auth/appengine.admin",
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/compute",
}

// ProjectEnvVars are consulted, in order, for the project id when none is
// configured.
var ProjectEnvVars = []string{"GCLOUD_PROJECT", "GOOGLE_CLOUD_PROJECT"}

// Credentials returns the credentials to call the Google APIs with. With a
// non-empty credentialsFile the service account key in that file is used,
// otherwise Application Default Credentials are looked up (which honour
// GOOGLE_APPLICATION_CREDENTIALS).
func Credentials(ctx context.Context, credentialsFile string) (*google.Credentials, error) {
	if credentialsFile == "" {
		creds, err := google.FindDefaultCredentials(ctx, Scopes...)
		if err != nil {
			return nil, errors.Annotate(err, "finding default credentials")
		}
		return creds, nil
	}
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.Annotatef(err, "reading credentials file %q", credentialsFile)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, errors.Annotatef(err, "parsing credentials file %q", credentialsFile)
	}
	return creds, nil
}

// ProjectID returns the project to manage: projectID if set, then the first
// of ProjectEnvVars that is set, then the project the credentials belong to.
func ProjectID(projectID string, creds *google.Credentials) (string, error) {
	if projectID != "" {
		return projectID, nil
	}
	for _, name := range ProjectEnvVars {
		if value := os.Getenv(name); value != "" {
			return value, nil
		}
	}
	if creds != nil && creds.ProjectID != "" {
		return creds.ProjectID, nil
	}
	return "", errors.NotValidf("empty project id")
}
