package pkg

import "fmt"

type Request struct {
	SourcePath string          `json:"source_path"`
	OutputDir  string          `json:"output_dir"`
	Publish    *PublishOptions `json:"publish"`
}

type PublishOptions struct {
	BucketName string `json:"bucket_name"`
	Region     string `json:"region"`
	Prefix     string `json:"prefix"`
}

func (req *Request) Validate() error {
	if req.SourcePath == "" {
		return fmt.Errorf("source_path is required field")
	}

	if req.OutputDir == "" {
		return fmt.Errorf("output_dir is required field")
	}

	if req.Publish != nil {
		if req.Publish.BucketName == "" {
			return fmt.Errorf("publish.bucket_name is required field")
		}
		if req.Publish.Region == "" {
			return fmt.Errorf("AWS region is required field")
		}
	}

	return nil
}
