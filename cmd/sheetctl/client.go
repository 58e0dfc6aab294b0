// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/persistence"
)

// apiClient is a thin wrapper over the sheet service HTTP surface.
type apiClient struct {
	base string
	http *http.Client
}

func newClient() *apiClient {
	return &apiClient{
		base: strings.TrimRight(config.ServerURL, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues a request and decodes the error envelope on failure.
func (c *apiClient) do(method, path, contentType string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			return nil, fmt.Errorf("%s %s: %s", method, path, envelope.Error)
		}
		return nil, fmt.Errorf("%s %s: HTTP %d", method, path, resp.StatusCode)
	}
	return data, nil
}

func (c *apiClient) GetSheet() (*datatypes.Grid, error) {
	data, err := c.do(http.MethodGet, "/v1/sheet", "", nil)
	if err != nil {
		return nil, err
	}
	var g datatypes.Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *apiClient) Reset() error {
	_, err := c.do(http.MethodPost, "/v1/sheet/reset", "", nil)
	return err
}

func (c *apiClient) SetTitle(title string) error {
	body, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return err
	}
	_, err = c.do(http.MethodPut, "/v1/sheet/title", "application/json", body)
	return err
}

func (c *apiClient) Users() ([]datatypes.UserSession, error) {
	data, err := c.do(http.MethodGet, "/v1/sheet/users", "", nil)
	if err != nil {
		return nil, err
	}
	var users []datatypes.UserSession
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *apiClient) SaveSnapshot(name string) error {
	_, err := c.do(http.MethodPost, "/v1/snapshots/"+name, "", nil)
	return err
}

func (c *apiClient) LoadSnapshot(name string) error {
	_, err := c.do(http.MethodPost, "/v1/snapshots/"+name+"/load", "", nil)
	return err
}

func (c *apiClient) ListSnapshots() ([]persistence.SnapshotInfo, error) {
	data, err := c.do(http.MethodGet, "/v1/snapshots", "", nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Snapshots []persistence.SnapshotInfo `json:"snapshots"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	return envelope.Snapshots, nil
}

func (c *apiClient) DeleteSnapshot(name string) error {
	_, err := c.do(http.MethodDelete, "/v1/snapshots/"+name, "", nil)
	return err
}

func (c *apiClient) Export(format string) ([]byte, error) {
	return c.do(http.MethodGet, "/v1/sheet/export/"+format, "", nil)
}

func (c *apiClient) Import(format string, data []byte) error {
	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	_, err := c.do(http.MethodPost, "/v1/sheet/import/"+format, contentType, data)
	return err
}
