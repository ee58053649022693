// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// brand logos, product images and brochure files. It wraps the AWS SDK v2
// and is configured for path-style access (required by CEPH/Hetzner).
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Client wraps an S3 client on two buckets: logos, product images and
// storefront images live in the public bucket, brochures in the private one.
type Client struct {
	s3            *s3.Client
	presigner     *s3.PresignClient
	publicBucket  string
	privateBucket string
	endpoint      string
	publicURL     string
}

// New returns a path-style S3 client, or (nil, nil) when the endpoint or
// credentials are missing so the catalog runs without uploads.
func New(endpoint, region, accessKey, secretKey, publicBucket, privateBucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")
	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:            s3Client,
		presigner:     s3.NewPresignClient(s3Client),
		publicBucket:  publicBucket,
		privateBucket: privateBucket,
		endpoint:      endpoint,
		publicURL:     strings.TrimRight(publicURL, "/"),
	}, nil
}

// put stores an object. Objects in the public bucket are written with a
// public-read ACL so FileURL can serve them directly.
func (c *Client) put(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if bucket == c.publicBucket {
		input.ACL = s3types.ObjectCannedACLPublicRead
	}
	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 put %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (c *Client) delete(ctx context.Context, bucket, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PutPublic stores a storefront image (banner, launch) in the public bucket.
func (c *Client) PutPublic(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	return c.put(ctx, c.publicBucket, key, contentType, body, size)
}

// DeletePublic removes an object from the public bucket.
func (c *Client) DeletePublic(ctx context.Context, key string) error {
	return c.delete(ctx, c.publicBucket, key)
}

// PutBrochure stores a brochure in the private bucket. Brochures are only
// handed out through presigned links.
func (c *Client) PutBrochure(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	return c.put(ctx, c.privateBucket, key, contentType, body, size)
}

// DeleteBrochure removes a brochure object, e.g. one whose database row
// could not be written.
func (c *Client) DeleteBrochure(ctx context.Context, key string) error {
	return c.delete(ctx, c.privateBucket, key)
}

// FileURL resolves a public object key, preferring the CDN base.
func (c *Client) FileURL(key string) string {
	if key == "" {
		return ""
	}
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.publicBucket + "/" + key
}

// BrochureURL signs a time-limited download link for a brochure.
func (c *Client) BrochureURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.privateBucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s: %w", key, err)
	}
	return req.URL, nil
}

// ObjectKey builds a collision-free key under dir that keeps the
// extension of filename, e.g. "brochures/3f0c...e1.pdf".
func ObjectKey(dir, filename string) string {
	return dir + "/" + uuid.NewString() + strings.ToLower(path.Ext(filename))
}

// BaseURL resolves public file keys against a fixed base when object
// storage is not configured, e.g. a local media server in development.
// An empty BaseURL resolves every key to "".
type BaseURL string

// FileURL joins the base and key.
func (b BaseURL) FileURL(key string) string {
	if b == "" || key == "" {
		return ""
	}
	return strings.TrimRight(string(b), "/") + "/" + strings.TrimLeft(key, "/")
}
