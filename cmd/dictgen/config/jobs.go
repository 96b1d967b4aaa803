// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"os"
	"strings"

	"github.com/AleutianAI/dictgen/services/dictgen/dgerr"
	"github.com/AleutianAI/dictgen/services/dictgen/mutation"
	"github.com/AleutianAI/dictgen/services/dictgen/variation"
	"gopkg.in/yaml.v3"
)

// JobEntry is one keyword as written in a jobs file.
//
//	jobs:
//	  - keyword: admin
//	    numbers: true
//	    years: 1990-2025
//	    special_chars: ["!", "@"]
//	    limit: 5000
type JobEntry struct {
	Keyword      string   `yaml:"keyword"`
	Numbers      bool     `yaml:"numbers"`
	Digits       int      `yaml:"digits"`
	Years        string   `yaml:"years,omitempty"`
	SpecialChars []string `yaml:"special_chars,omitempty"`
	CaseMix      bool     `yaml:"case_mix"`
	Limit        int      `yaml:"limit"`
}

// JobsFile is the document shape of a jobs file. A bare top-level list of
// entries is accepted as well.
type JobsFile struct {
	Jobs []JobEntry `yaml:"jobs"`
}

// Job converts the entry into a validated mutation.Job.
func (e JobEntry) Job() (mutation.Job, error) {
	job := mutation.Job{
		Keyword: strings.TrimSpace(e.Keyword),
		Config: mutation.Config{
			Numbers:      e.Numbers,
			DigitCount:   e.Digits,
			SpecialChars: e.SpecialChars,
			CaseMix:      e.CaseMix,
			Limit:        e.Limit,
		},
	}
	if e.Years != "" {
		yr, err := variation.ParseYearRange(e.Years)
		if err != nil {
			return job, dgerr.WithKeyword(err, job.Keyword)
		}
		job.Config.Years = &yr
	}
	if err := job.Validate(); err != nil {
		return job, err
	}
	return job, nil
}

// ParseJobs decodes a jobs document and validates every entry.
//
// # Description
//
// An invalid entry does not stop the others: it is left out of jobs and its
// error is returned in skipped, so the caller can warn and carry on. err is
// set when the document cannot be decoded, holds no entries, or no entry is
// valid; in the last case it joins every entry error.
func ParseJobs(data []byte) (jobs []mutation.Job, skipped []error, err error) {
	var entries []JobEntry

	var doc JobsFile
	if err := yaml.Unmarshal(data, &doc); err == nil && doc.Jobs != nil {
		entries = doc.Jobs
	} else if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, nil, dgerr.InvalidConfig("parse jobs", "expected a list of jobs or a 'jobs' key: %v", err)
	}

	if len(entries) == 0 {
		return nil, nil, dgerr.InvalidInput("parse jobs", "no jobs defined")
	}

	jobs = make([]mutation.Job, 0, len(entries))
	for _, e := range entries {
		job, jerr := e.Job()
		if jerr != nil {
			skipped = append(skipped, jerr)
			continue
		}
		jobs = append(jobs, job)
	}
	if len(jobs) == 0 {
		return nil, nil, errors.Join(skipped...)
	}
	return jobs, skipped, nil
}

// LoadJobs reads and parses the jobs file at path. See ParseJobs.
func LoadJobs(path string) (jobs []mutation.Job, skipped []error, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, dgerr.IOFailure("load jobs", path, err)
	}
	return ParseJobs(data)
}
