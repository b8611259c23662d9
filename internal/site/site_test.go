package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromLink(t *testing.T) {
	tests := []struct {
		name   string
		link   string
		want   Site
		wantOK bool
	}{
		{"indeed view job", "https://ca.indeed.com/viewjob?jk=abc123", Indeed, true},
		{"linkedin", "https://www.linkedin.com/jobs/view/42", LinkedIn, true},
		{"job bank", "https://www.jobbank.gc.ca/jobsearch/jobposting/1", CanadaGov, true},
		{"uppercase host", "https://WWW.MONSTER.CA/job/1", Monster, true},
		{"bare domain", "https://linkedin.com/jobs/view/7", LinkedIn, true},
		{"canada.ca subdomain", "https://emploisfp-psjobs.cfp-psc.canada.ca/apply", CanadaGov, true},
		{"ziprecruiter canada", "https://www.ziprecruiter.ca/jobs/1", ZipRecruiter, true},
		{"host with port", "https://www.glassdoor.com:443/job/1", Glassdoor, true},
		{"employer page", "https://careers.example.com/apply", "", false},
		{"name ends like canada.ca", "https://workincanada.ca/apply/1", "", false},
		{"name ends like monster.ca", "https://jobsmonster.ca/apply/1", "", false},
		{"other gc.ca department", "https://www.tbs-sct.gc.ca/careers", "", false},
		{"site domain as a label", "https://monster.ca.example.com/apply", "", false},
		{"site name in path", "https://careers.example.com/linkedin.com", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromLink(tt.link)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	s, ok := Parse(" ZipRecruiter ")
	assert.True(t, ok)
	assert.Equal(t, ZipRecruiter, s)

	_, ok = Parse("facebook")
	assert.False(t, ok)

	assert.Equal(t, "LINKEDIN", LinkedIn.EnvPrefix())
	assert.Equal(t, "Canada.ca", CanadaGov.String())
}
