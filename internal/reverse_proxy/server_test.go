package reverse_proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eagraf/porch/core/rules"
	"github.com/eagraf/porch/internal/logging"
	"github.com/eagraf/porch/internal/reverse_proxy/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDispatchFirstMatchWins(t *testing.T) {
	ctrl := gomock.NewController(t)

	first := mocks.NewMockRuleHandler(ctrl)
	first.EXPECT().Rule().Return(rules.Rule{ID: "first"}).AnyTimes()
	second := mocks.NewMockRuleHandler(ctrl)
	second.EXPECT().Rule().Return(rules.Rule{ID: "second"}).AnyTimes()

	ruleSet := &RuleSet{ids: make(map[string]struct{})}
	require.NoError(t, ruleSet.add(first))
	require.NoError(t, ruleSet.add(second))

	// Both rules would match; the first one declared must handle the request.
	first.EXPECT().Match(gomock.Any()).Return(true)
	first.EXPECT().Handler().Return(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	srv := NewProxyServer(logging.NewLogger(), nil, ruleSet)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestDispatchFallsThroughInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)

	first := mocks.NewMockRuleHandler(ctrl)
	first.EXPECT().Rule().Return(rules.Rule{ID: "first"}).AnyTimes()
	second := mocks.NewMockRuleHandler(ctrl)
	second.EXPECT().Rule().Return(rules.Rule{ID: "second"}).AnyTimes()

	ruleSet := &RuleSet{ids: make(map[string]struct{})}
	require.NoError(t, ruleSet.add(first))
	require.NoError(t, ruleSet.add(second))

	first.EXPECT().Match(gomock.Any()).Return(false)
	second.EXPECT().Match(gomock.Any()).Return(true)
	second.EXPECT().Handler().Return(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	srv := NewProxyServer(logging.NewLogger(), nil, ruleSet)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDispatchNoMatch(t *testing.T) {
	ctrl := gomock.NewController(t)

	only := mocks.NewMockRuleHandler(ctrl)
	only.EXPECT().Rule().Return(rules.Rule{ID: "only"}).AnyTimes()
	only.EXPECT().Match(gomock.Any()).Return(false)

	ruleSet := &RuleSet{ids: make(map[string]struct{})}
	require.NoError(t, ruleSet.add(only))

	srv := NewProxyServer(logging.NewLogger(), nil, ruleSet)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRuleSetRejectsDuplicateIDs(t *testing.T) {
	ctrl := gomock.NewController(t)

	first := mocks.NewMockRuleHandler(ctrl)
	first.EXPECT().Rule().Return(rules.Rule{ID: "dup"}).AnyTimes()
	second := mocks.NewMockRuleHandler(ctrl)
	second.EXPECT().Rule().Return(rules.Rule{ID: "dup"}).AnyTimes()

	ruleSet := &RuleSet{ids: make(map[string]struct{})}
	require.NoError(t, ruleSet.add(first))
	require.Error(t, ruleSet.add(second))
	require.Equal(t, 1, ruleSet.Len())
}
