// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package google_test

import (
	"context"
	"net/http"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/ddosblock/core/firewall"
	"github.com/juju/ddosblock/internal/provider/google"
)

type firewallSuite struct {
	connSuite
}

var _ = gc.Suite(&firewallSuite{})

const firewallsPath = "/projects/spam/global/firewalls"

func (s *firewallSuite) TestFirewallsFollowsPages(c *gc.C) {
	s.api.respond("GET", firewallsPath, http.StatusOK, `{
		"items": [{
			"name": "default-allow-ssh",
			"network": "https://www.googleapis.com/compute/v1/projects/spam/global/networks/default",
			"direction": "INGRESS",
			"priority": 65534,
			"sourceRanges": ["0.0.0.0/0"],
			"allowed": [{"IPProtocol": "tcp", "ports": ["22"]}]
		}],
		"nextPageToken": "page-2"
	}`)
	s.api.respond("GET", firewallsPath, http.StatusOK, `{
		"items": [{
			"name": "ddosblock",
			"network": "https://www.googleapis.com/compute/v1/projects/spam/global/networks/default",
			"direction": "INGRESS",
			"priority": 1,
			"description": "Blocked IPs because of DDoS Attack.",
			"sourceRanges": ["192.0.2.1/32"],
			"denied": [{"IPProtocol": "all"}]
		}]
	}`)

	rules, err := s.conn.Firewalls(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(rules, jc.DeepEquals, []firewall.Rule{{
		Name:         "default-allow-ssh",
		Network:      "https://www.googleapis.com/compute/v1/projects/spam/global/networks/default",
		Direction:    "INGRESS",
		Priority:     65534,
		SourceRanges: []string{"0.0.0.0/0"},
		Allowed:      []firewall.PortSpec{{Protocol: "tcp", Ports: []string{"22"}}},
	}, {
		Name:         "ddosblock",
		Network:      "https://www.googleapis.com/compute/v1/projects/spam/global/networks/default",
		Direction:    "INGRESS",
		Priority:     1,
		Description:  "Blocked IPs because of DDoS Attack.",
		SourceRanges: []string{"192.0.2.1/32"},
		Denied:       []firewall.PortSpec{{Protocol: "all"}},
	}})

	requests := s.requestsTo("GET", firewallsPath)
	c.Assert(requests, gc.HasLen, 2)
	c.Check(requests[1].Query, jc.Contains, "pageToken=page-2")
}

func (s *firewallSuite) TestFirewallsError(c *gc.C) {
	s.api.respond("GET", firewallsPath, http.StatusForbidden, `{"error": {"code": 403, "message": "Forbidden"}}`)

	_, err := s.conn.Firewalls(context.Background())
	c.Assert(err, gc.NotNil)
	c.Check(google.IsAuthorisationFailure(err), jc.IsTrue)
}

func (s *firewallSuite) TestAddFirewall(c *gc.C) {
	s.api.respond("POST", firewallsPath, http.StatusOK, `{"name": "op-1", "status": "DONE"}`)

	rule := firewall.NewBlockRule("ddosblock", "default", "Blocked IPs because of DDoS Attack.", "198.51.100.9/32")
	err := s.conn.AddFirewall(context.Background(), rule)
	c.Assert(err, jc.ErrorIsNil)

	requests := s.requestsTo("POST", firewallsPath)
	c.Assert(requests, gc.HasLen, 1)
	c.Check(requests[0].Body, jc.DeepEquals, map[string]interface{}{
		"name":         "ddosblock",
		"network":      "projects/spam/global/networks/default",
		"direction":    "INGRESS",
		"priority":     float64(1),
		"disabled":     false,
		"description":  "Blocked IPs because of DDoS Attack.",
		"sourceRanges": []interface{}{"198.51.100.9/32"},
		"denied":       []interface{}{map[string]interface{}{"IPProtocol": "all"}},
	})
}

func (s *firewallSuite) TestAddFirewallWaitsForOperation(c *gc.C) {
	s.api.respond("POST", firewallsPath, http.StatusOK, `{"name": "op-1", "status": "PENDING"}`)
	s.api.respond("GET", "/projects/spam/global/operations/op-1", http.StatusOK, `{"name": "op-1", "status": "RUNNING"}`)
	s.api.respond("GET", "/projects/spam/global/operations/op-1", http.StatusOK, `{"name": "op-1", "status": "DONE"}`)

	err := s.conn.AddFirewall(context.Background(), firewall.NewBlockRule("ddosblock", "default", "", "198.51.100.9/32"))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.requestsTo("GET", "/global/operations/op-1"), gc.HasLen, 2)
}

func (s *firewallSuite) TestAddFirewallOperationError(c *gc.C) {
	s.api.respond("POST", firewallsPath, http.StatusOK, `{
		"name": "op-1",
		"status": "DONE",
		"error": {"errors": [{"code": "QUOTA_EXCEEDED", "message": "Quota 'FIREWALLS' exceeded."}]}
	}`)

	err := s.conn.AddFirewall(context.Background(), firewall.NewBlockRule("ddosblock", "default", "", "198.51.100.9/32"))
	c.Assert(err, gc.ErrorMatches, `operation "op-1" failed: QUOTA_EXCEEDED: Quota 'FIREWALLS' exceeded.`)
}

func (s *firewallSuite) TestAddFirewallConflict(c *gc.C) {
	s.api.respond("POST", firewallsPath, http.StatusConflict, `{"error": {"code": 409, "message": "already exists"}}`)

	err := s.conn.AddFirewall(context.Background(), firewall.NewBlockRule("ddosblock", "default", "", "198.51.100.9/32"))
	c.Assert(err, gc.NotNil)
	c.Check(google.IsConflict(err), jc.IsTrue)
	c.Check(google.IsNotFound(err), jc.IsFalse)
}

func (s *firewallSuite) TestUpdateFirewall(c *gc.C) {
	s.api.respond("PUT", firewallsPath+"/ddosblock", http.StatusOK, `{"name": "op-2", "status": "DONE"}`)

	rule := firewall.Rule{
		Name:         "ddosblock",
		Network:      "default",
		Direction:    "INGRESS",
		Priority:     1,
		SourceRanges: []string{"192.0.2.1/32", "198.51.100.9/32"},
		TargetTags:   []string{"web"},
		Denied:       []firewall.PortSpec{{Protocol: "all"}},
	}
	err := s.conn.UpdateFirewall(context.Background(), "ddosblock", rule)
	c.Assert(err, jc.ErrorIsNil)

	requests := s.requestsTo("PUT", "/ddosblock")
	c.Assert(requests, gc.HasLen, 1)
	c.Check(requests[0].Body["sourceRanges"], jc.DeepEquals, []interface{}{"192.0.2.1/32", "198.51.100.9/32"})
	c.Check(requests[0].Body["targetTags"], jc.DeepEquals, []interface{}{"web"})
	c.Check(requests[0].Body["network"], gc.Equals, "projects/spam/global/networks/default")
}

func (s *firewallSuite) TestUpdateFirewallKeepsListedRule(c *gc.C) {
	sharedNetwork := "https://www.googleapis.com/compute/v1/projects/host-project/global/networks/shared-vpc"
	s.api.respond("GET", firewallsPath, http.StatusOK, `{
		"items": [{
			"name": "ddosblock",
			"network": "`+sharedNetwork+`",
			"direction": "INGRESS",
			"sourceRanges": ["192.0.2.1/32"],
			"denied": [{"IPProtocol": "all"}]
		}]
	}`)
	s.api.respond("PUT", firewallsPath+"/ddosblock", http.StatusOK, `{"name": "op-3", "status": "DONE"}`)

	rules, err := s.conn.Firewalls(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(rules, gc.HasLen, 1)
	c.Check(rules[0].Network, gc.Equals, sharedNetwork)
	c.Check(rules[0].Priority, gc.Equals, int64(0))

	err = s.conn.UpdateFirewall(context.Background(), "ddosblock", rules[0].WithSourceRange("198.51.100.9/32"))
	c.Assert(err, jc.ErrorIsNil)

	requests := s.requestsTo("PUT", "/ddosblock")
	c.Assert(requests, gc.HasLen, 1)
	c.Check(requests[0].Body["network"], gc.Equals, sharedNetwork)
	c.Check(requests[0].Body["priority"], gc.Equals, float64(0))
	c.Check(requests[0].Body["disabled"], gc.Equals, false)
	c.Check(requests[0].Body["sourceRanges"], jc.DeepEquals, []interface{}{"192.0.2.1/32", "198.51.100.9/32"})
}

func (s *firewallSuite) TestUpdateFirewallNotFound(c *gc.C) {
	err := s.conn.UpdateFirewall(context.Background(), "ddosblock", firewall.Rule{Name: "ddosblock"})
	c.Assert(err, gc.NotNil)
	c.Check(google.IsNotFound(err), jc.IsTrue)
}
