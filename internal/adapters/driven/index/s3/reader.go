// Package s3 reads the e-file index object from Amazon S3.
//
// The index is a JSON array of row objects, one row object per line, or a
// column-oriented object mapping each column to its row labels. Rows need at
// least FormType and URL fields. Row-oriented bodies are decoded as a stream;
// a column-oriented body is buffered whole.
package s3

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
	"github.com/custodia-labs/pfgrants/internal/logger"
)

// Ensure Reader implements the interface.
var _ driven.IndexReader = (*Reader)(nil)

// objectAPI is the part of the S3 client the reader uses.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Reader reads the index object at a fixed bucket and key.
// The S3 client is created on first use.
type Reader struct {
	bucket string
	key    string
	awsCfg domain.AWSSettings

	mu  sync.Mutex
	api objectAPI
}

// NewReader creates a reader for the configured index location.
func NewReader(index domain.IndexSettings, awsCfg domain.AWSSettings) *Reader {
	return &Reader{
		bucket: index.Bucket,
		key:    index.Key,
		awsCfg: awsCfg,
	}
}

// newReaderWithAPI creates a reader around an existing client.
func newReaderWithAPI(api objectAPI, bucket, key string) *Reader {
	return &Reader{bucket: bucket, key: key, api: api}
}

// Location returns the index location as an s3:// URI.
func (r *Reader) Location() string {
	return fmt.Sprintf("s3://%s/%s", r.bucket, r.key)
}

// client returns the S3 client, loading AWS configuration on first call.
func (r *Reader) client(ctx context.Context) (objectAPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.api != nil {
		return r.api, nil
	}

	opts := []func(*config.LoadOptions) error{}
	if r.awsCfg.Region != "" {
		opts = append(opts, config.WithRegion(r.awsCfg.Region))
	}

	var s3Opts []func(*s3.Options)
	if r.awsCfg.Endpoint != "" {
		// Local S3 emulators accept any static credentials.
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", "")))
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(r.awsCfg.Endpoint)
			o.UsePathStyle = true
		})
	} else if r.awsCfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(r.awsCfg.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	r.api = s3.NewFromConfig(cfg, s3Opts...)
	return r.api, nil
}

// open starts a GetObject on the index and returns its body.
func (r *Reader) open(ctx context.Context) (io.ReadCloser, error) {
	api, err := r.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnreadable, err)
	}

	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, r.Location())
		}
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrIndexUnreadable, r.Location(), err)
	}
	return out.Body, nil
}

// Read returns the index rows whose FormType equals formType, in order.
func (r *Reader) Read(ctx context.Context, formType string) ([]domain.IndexEntry, error) {
	body, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var entries []domain.IndexEntry
	total := 0
	err = decodeEntries(body, func(e domain.IndexEntry) {
		total++
		if e.FormType == formType {
			entries = append(entries, e)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrIndexUnreadable, r.Location(), err)
	}

	logger.Info("Found %d %s entries out of %d in %s", len(entries), formType, total, r.Location())
	return entries, nil
}

// Peek returns up to n raw lines from the start of the index, trimmed.
func (r *Reader) Peek(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	body, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var lines []string
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for len(lines) < n && scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("%w: read %s: %w", domain.ErrIndexUnreadable, r.Location(), err)
	}
	return lines, nil
}

// decodeEntries streams index rows from a JSON array, JSON Lines or a
// column-oriented object.
func decodeEntries(rd io.Reader, fn func(domain.IndexEntry)) error {
	br := bufio.NewReader(rd)
	first, err := firstNonSpace(br)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}

	dec := json.NewDecoder(br)
	if first != '[' {
		var head json.RawMessage
		if err := dec.Decode(&head); err != nil {
			return err
		}
		if cols, ok := columnar(head); ok {
			if dec.More() {
				return errTrailingData
			}
			return decodeColumns(cols, fn)
		}

		var row indexRow
		if err := json.Unmarshal(head, &row); err != nil {
			return err
		}
		fn(row.entry())
		for {
			var row indexRow
			if err := dec.Decode(&row); err == io.EOF {
				return nil
			} else if err != nil {
				return err
			}
			fn(row.entry())
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		var row indexRow
		if err := dec.Decode(&row); err != nil {
			return err
		}
		fn(row.entry())
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// firstNonSpace peeks at the first byte that is not JSON whitespace.
func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
