// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package blocker

import (
	"context"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/juju/ddosblock/core/firewall"
)

type appEngineSuite struct {
	baseSuite
}

var _ = gc.Suite(&appEngineSuite{})

var defaultIngressRules = []firewall.IngressRule{
	{Priority: 1, Action: "DENY", SourceRange: "192.0.2.1/32"},
	{Priority: 2, Action: "DENY", SourceRange: "192.0.2.2/32"},
	{Priority: firewall.CatchAllPriority, Action: "ALLOW", SourceRange: "*"},
}

func (s *appEngineSuite) block(c *gc.C, b *Blocker, ip string) (firewall.Result, error) {
	return b.Block(context.Background(), firewall.BlockRequest{
		Type: firewall.AppEngine,
		IP:   ip,
	})
}

func (s *appEngineSuite) TestCreateMappedAddress(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.ingress.EXPECT().IngressRules(gomock.Any()).Return(defaultIngressRules, nil)
	s.ingress.EXPECT().CreateIngressRule(gomock.Any(), firewall.IngressRule{
		Priority:    3,
		Action:      "DENY",
		SourceRange: "203.0.113.5/32",
		Description: "DDoS Block",
	}).Return(nil)

	result, err := s.block(c, s.newBlocker(c), "::ffff:203.0.113.5")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result, jc.DeepEquals, firewall.Result{
		Type:        firewall.AppEngine,
		IP:          "::ffff:203.0.113.5",
		SourceRange: "203.0.113.5/32",
		Priority:    3,
		Change:      firewall.Created,
		Attempts:    1,
	})
}

func (s *appEngineSuite) TestCreateBareAddressHasNoSuffix(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.ingress.EXPECT().IngressRules(gomock.Any()).Return(defaultIngressRules, nil)
	s.ingress.EXPECT().CreateIngressRule(gomock.Any(), firewall.IngressRule{
		Priority:    3,
		Action:      "DENY",
		SourceRange: "203.0.113.5",
		Description: "DDoS Block",
	}).Return(nil)

	result, err := s.block(c, s.newBlocker(c), "203.0.113.5")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.SourceRange, gc.Equals, "203.0.113.5")
}

func (s *appEngineSuite) TestCreateNormalizedAddress(c *gc.C) {
	defer s.setupMocks(c).Finish()

	cfg := s.config()
	cfg.NormalizeSourceRanges = true
	b, err := New(cfg)
	c.Assert(err, jc.ErrorIsNil)

	s.ingress.EXPECT().IngressRules(gomock.Any()).Return(defaultIngressRules, nil)
	s.ingress.EXPECT().CreateIngressRule(gomock.Any(), firewall.NewDenyIngressRule(3, "203.0.113.5/32", "DDoS Block")).Return(nil)

	_, err = s.block(c, b, "203.0.113.5")
	c.Assert(err, jc.ErrorIsNil)
}

func (s *appEngineSuite) TestPriorityWithShortList(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.ingress.EXPECT().IngressRules(gomock.Any()).Return(defaultIngressRules[2:], nil)
	s.ingress.EXPECT().CreateIngressRule(gomock.Any(), firewall.NewDenyIngressRule(1, "203.0.113.5", "DDoS Block")).Return(nil)

	result, err := s.block(c, s.newBlocker(c), "203.0.113.5")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.Priority, gc.Equals, int64(1))
}

func (s *appEngineSuite) TestPriorityMaxPolicy(c *gc.C) {
	defer s.setupMocks(c).Finish()

	cfg := s.config()
	cfg.PriorityPolicy = firewall.PriorityMax
	b, err := New(cfg)
	c.Assert(err, jc.ErrorIsNil)

	rules := []firewall.IngressRule{
		{Priority: 40},
		{Priority: firewall.CatchAllPriority},
		{Priority: 7},
	}
	s.ingress.EXPECT().IngressRules(gomock.Any()).Return(rules, nil)
	s.ingress.EXPECT().CreateIngressRule(gomock.Any(), firewall.NewDenyIngressRule(41, "203.0.113.5", "DDoS Block")).Return(nil)

	result, err := s.block(c, b, "203.0.113.5")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.Priority, gc.Equals, int64(41))
}

func (s *appEngineSuite) TestNoDedupe(c *gc.C) {
	defer s.setupMocks(c).Finish()

	rules := []firewall.IngressRule{
		{Priority: 1, Action: "DENY", SourceRange: "203.0.113.5"},
		{Priority: firewall.CatchAllPriority, Action: "ALLOW", SourceRange: "*"},
	}
	s.ingress.EXPECT().IngressRules(gomock.Any()).Return(rules, nil)
	s.ingress.EXPECT().CreateIngressRule(gomock.Any(), firewall.NewDenyIngressRule(2, "203.0.113.5", "DDoS Block")).Return(nil)

	result, err := s.block(c, s.newBlocker(c), "203.0.113.5")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.Change, gc.Equals, firewall.Created)
}

func (s *appEngineSuite) TestListFailureIsProviderError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	cfg := s.config()
	cfg.Retry.Attempts = 2
	b, err := New(cfg)
	c.Assert(err, jc.ErrorIsNil)

	s.ingress.EXPECT().IngressRules(gomock.Any()).Return(nil, errors.New("app not found")).Times(2)

	_, err = s.block(c, b, "203.0.113.5")
	c.Assert(err, gc.ErrorMatches, `blocking 203.0.113.5 \(appengine\) after 2 attempt\(s\): list ingress rules: app not found`)
	c.Check(IsProviderError(err), jc.IsTrue)
}

func (s *appEngineSuite) TestCreateFailureIsProviderError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	cfg := s.config()
	cfg.Retry.Attempts = 1
	b, err := New(cfg)
	c.Assert(err, jc.ErrorIsNil)

	s.ingress.EXPECT().IngressRules(gomock.Any()).Return(defaultIngressRules, nil)
	s.ingress.EXPECT().CreateIngressRule(gomock.Any(), gomock.Any()).Return(errors.New("priority already in use"))

	_, err = s.block(c, b, "203.0.113.5")
	c.Assert(err, gc.ErrorMatches, `.*create ingress rule: creating ingress rule at priority 3: priority already in use`)
	c.Check(IsProviderError(err), jc.IsTrue)
}
