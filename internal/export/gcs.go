package export

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Result reports the outcome of one upload attempt. Each file is attempted
// and reported independently; the local file is retained either way.
type Result struct {
	File     string
	Type     string // "json" or "csv"
	Object   string // destination object name, when attempted
	Uploaded bool
	Err      error
}

// Uploader pushes run outputs to a Google Cloud Storage bucket.
type Uploader struct {
	bucket          string
	projectID       string
	credentialsPath string
}

// NewUploaderFromEnv builds an Uploader from GCLOUD_BUCKET,
// GCLOUD_PROJECT_ID, and GCLOUD_CREDENTIALS_PATH. A missing bucket is not an
// error here: uploads degrade to per-file failures so local files still land.
func NewUploaderFromEnv() *Uploader {
	return &Uploader{
		bucket:          os.Getenv("GCLOUD_BUCKET"),
		projectID:       os.Getenv("GCLOUD_PROJECT_ID"),
		credentialsPath: os.Getenv("GCLOUD_CREDENTIALS_PATH"),
	}
}

// Upload pushes one local file to the bucket under objectName, tagged with
// the upload timestamp, source label, and file type.
func (u *Uploader) Upload(ctx context.Context, localPath, objectName, fileType string) error {
	if u.bucket == "" {
		return fmt.Errorf("GCLOUD_BUCKET environment variable is required for upload")
	}

	var opts []option.ClientOption
	if u.credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(u.credentialsPath))
		log.Printf("[Upload] Using service account credentials from %s", u.credentialsPath)
	} else {
		log.Println("[Upload] Using Application Default Credentials")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	w := client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	w.Metadata = map[string]string{
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
		"source":      "lol_ranked_etl",
		"file_type":   fileType,
	}

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("failed to upload %s: %w", localPath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload of %s: %w", localPath, err)
	}

	log.Printf("[Upload] Successfully uploaded %s to gs://%s/%s", localPath, u.bucket, objectName)
	return nil
}

// UploadRun attempts both run outputs: the JSON file under json/ and the CSV
// file under csv/. One upload failing never blocks the other.
func (u *Uploader) UploadRun(ctx context.Context, jsonPath, csvPath string) []Result {
	files := []struct {
		path   string
		prefix string
		ftype  string
	}{
		{jsonPath, "json/", "json"},
		{csvPath, "csv/", "csv"},
	}

	var results []Result
	for _, file := range files {
		res := Result{File: file.path, Type: file.ftype}

		if _, err := os.Stat(file.path); err != nil {
			res.Err = fmt.Errorf("local file missing: %w", err)
			log.Printf("[Upload] %s file %s not found, skipping upload", file.ftype, file.path)
			results = append(results, res)
			continue
		}

		res.Object = file.prefix + filepath.Base(file.path)
		if err := u.Upload(ctx, file.path, res.Object, file.ftype); err != nil {
			res.Err = err
			log.Printf("[Upload] Error uploading %s: %v", file.path, err)
		} else {
			res.Uploaded = true
		}
		results = append(results, res)
	}
	return results
}
