package cli

import (
	"context"
	"fmt"
	"log"
)

// upload requests a presigned PUT URL for the artifact's content blob:
// upload <hash>. Only the author may upload.
func (a *App) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: upload <hash>")
		return nil
	}

	url, err := a.api.UploadURL(ctx, args[0])
	if err != nil {
		log.Printf("Upload URL request unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Printf("PUT your content to:\n%s\n", url)
	return nil
}

// download requests a presigned GET URL: download <hash> [license-key].
// Without a key the caller must be the author.
func (a *App) download(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		fmt.Println("Usage: download <hash> [license-key]")
		return nil
	}

	licenseKey := ""
	if len(args) == 2 {
		licenseKey = args[1]
	}

	url, err := a.api.DownloadURL(ctx, args[0], licenseKey)
	if err != nil {
		log.Printf("Download URL request unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Printf("GET your content from:\n%s\n", url)
	return nil
}
