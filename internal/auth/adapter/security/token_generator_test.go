package security_test

import (
	"testing"

	"cah-online/internal/auth/adapter/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TokenGeneratorTestSuite struct {
	suite.Suite
	generator *security.RandomTokenGenerator
}

func (suite *TokenGeneratorTestSuite) SetupTest() {
	gen, err := security.NewTokenGenerator(security.MinTokenLength)
	require.NoError(suite.T(), err)
	suite.generator = gen
}

func (suite *TokenGeneratorTestSuite) TestNewTokenGenerator_RejectsShortLength() {
	for _, length := range []int{-1, 0, 16, security.MinTokenLength - 1} {
		gen, err := security.NewTokenGenerator(length)
		assert.Error(suite.T(), err)
		assert.Nil(suite.T(), gen)
	}
}

func (suite *TokenGeneratorTestSuite) TestNewTokenGenerator_LongerTokens() {
	gen, err := security.NewTokenGenerator(32)
	require.NoError(suite.T(), err)

	token, err := gen.Generate()
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), token, 32)
	assert.Equal(suite.T(), 32, gen.Length())
}

func (suite *TokenGeneratorTestSuite) TestGenerate_LengthAndAlphabet() {
	for i := 0; i < 1000; i++ {
		token, err := suite.generator.Generate()
		require.NoError(suite.T(), err)
		require.Len(suite.T(), token, security.MinTokenLength)

		for _, r := range token {
			ok := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
			require.Truef(suite.T(), ok, "unexpected symbol %q in %s", r, token)
		}
	}
}

func (suite *TokenGeneratorTestSuite) TestGenerate_Unique() {
	if testing.Short() {
		suite.T().Skip("skipping uniqueness sweep in short mode")
	}

	const n = 100_000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		token, err := suite.generator.Generate()
		require.NoError(suite.T(), err)
		_, dup := seen[token]
		require.False(suite.T(), dup, "duplicate token after %d draws", i)
		seen[token] = struct{}{}
	}
}

func (suite *TokenGeneratorTestSuite) TestGenerate_UsesWholeAlphabet() {
	used := make(map[rune]bool)
	for i := 0; i < 2000; i++ {
		token, err := suite.generator.Generate()
		require.NoError(suite.T(), err)
		for _, r := range token {
			used[r] = true
		}
	}
	assert.Len(suite.T(), used, 64)
}

func TestTokenGeneratorTestSuite(t *testing.T) {
	suite.Run(t, new(TokenGeneratorTestSuite))
}
