package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanolab/patternshop/internal/order"
)

const validCategoryCUE = `
category: c3: {
	title: "カテゴリー3：好ましくない押しつけ"
	task:  "条件を満たす商品を購入してください"
	thresholds: {
		min_capacity_mah: 10000
		max_weight_g:     200
		max_price_yen:    4000
	}
	products: [
		{id: "p1", name: "モバイルバッテリー1", capacity_mah: 10000, weight_g: 189, price_yen: 3180, is_target: true},
		{id: "p2", name: "モバイルバッテリー2", capacity_mah: 10000, weight_g: 175, price_yen: 2880},
	]
	shipping: [
		{id: "express", title: "お急ぎ配送", price_yen: 150, featured: true},
		{id: "normal", title: "通常配送", price_yen: 0},
	]
	options: [
		{id: "warranty", label: "保証（30日）", price_yen: 300},
		{id: "newsletter", label: "お得な情報のメールを受け取る", price_yen: 0},
	]
	policy: dp: {
		forced_shipping_default: "express"
		forced_option_defaults: ["warranty", "newsletter"]
		confirm_banner: "この内容で問題ありません"
	}
}
`

func compileString(t *testing.T, src string) ([]*order.Category, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	return CompileCategories(v)
}

func TestCompileCategories_Valid(t *testing.T) {
	cats, err := compileString(t, validCategoryCUE)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	cat := cats[0]
	assert.Equal(t, "c3", cat.ID)
	assert.Equal(t, "カテゴリー3：好ましくない押しつけ", cat.Title)
	assert.Equal(t, 10000, cat.Thresholds.MinCapacityMah)

	require.Len(t, cat.Products, 2)
	assert.True(t, cat.Products[0].IsTarget)
	assert.Equal(t, 2880, cat.Products[1].PriceYen)

	require.Len(t, cat.Shipping, 2)
	assert.Equal(t, 150, cat.Shipping[0].PriceYen)

	pol := cat.Policy(order.VariantDP)
	assert.Equal(t, "express", pol.ForcedShippingDefault)
	assert.Equal(t, []string{"warranty", "newsletter"}, pol.ForcedOptionDefaults)

	// Control declared nothing: zero policy.
	assert.Equal(t, order.Policy{}, cat.Policy(order.VariantControl))
}

func TestCompileCategories_MissingTopLevel(t *testing.T) {
	_, err := compileString(t, `something: else: true`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category struct is required")
}

func TestCompileCategories_MissingTitle(t *testing.T) {
	src := `
category: c1: {
	products: [{id: "p1", name: "x", price_yen: 100}]
	shipping: [{id: "normal", title: "通常配送", price_yen: 0}]
	options: []
}
`
	_, err := compileString(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
}

func TestCompileCategories_MissingTable(t *testing.T) {
	src := `
category: c1: {
	title: "t"
	products: [{id: "p1", name: "x", price_yen: 100}]
	options: []
}
`
	_, err := compileString(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shipping table is required")
}

func TestCompileCategories_UnknownVariantKey(t *testing.T) {
	src := `
category: c1: {
	title: "t"
	products: [{id: "p1", name: "x", price_yen: 100}]
	shipping: [{id: "normal", title: "通常配送", price_yen: 0}]
	options: []
	policy: treatment: {}
}
`
	_, err := compileString(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `variant must be "control" or "dp"`)
}

func TestCompileCategories_CUETypeErrorSurfaces(t *testing.T) {
	src := `
category: c1: {
	title: 42
	products: [{id: "p1", name: "x", price_yen: 100}]
	shipping: [{id: "normal", title: "通常配送", price_yen: 0}]
	options: []
}
`
	_, err := compileString(t, src)
	require.Error(t, err)
}
