// Package feature 把商品的文本属性（类目、成分、功效、价格档位）编码为
// TF-IDF 数值向量，供内容相似度召回使用。
package feature

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/glowrec/glowrec/core"
)

// Document 把单个商品拼接为一条特征文本：
// 类目 token + 各成分 token + 各功效 token + 价格档位 token。
func Document(p core.Product) string {
	parts := make([]string, 0, 2+len(p.Ingredients)+len(p.Benefits))
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	parts = append(parts, p.Ingredients...)
	parts = append(parts, p.Benefits...)
	parts = append(parts, p.PriceTier())
	return strings.Join(parts, " ")
}

// Vectorizer 是 TF-IDF 向量化器。零值即可用，默认配置：
// 词表上限 100、unigram+bigram、过滤英文停用词。
type Vectorizer struct {
	// MaxFeatures 词表上限，按语料词频取 Top N（同频按字典序）。<=0 时取 100。
	MaxFeatures int

	// NgramMax n-gram 上限。<=1 时只用 unigram，默认 2（unigram+bigram）。
	NgramMax int

	// StopWords 停用词表，nil 时使用内置英文停用词。
	StopWords map[string]struct{}
}

func (v *Vectorizer) maxFeatures() int {
	if v.MaxFeatures <= 0 {
		return 100
	}
	return v.MaxFeatures
}

func (v *Vectorizer) ngramMax() int {
	if v.NgramMax <= 1 {
		if v.NgramMax == 1 {
			return 1
		}
		return 2
	}
	return v.NgramMax
}

func (v *Vectorizer) stopWords() map[string]struct{} {
	if v.StopWords == nil {
		return englishStopWords
	}
	return v.StopWords
}

// tokenize 小写化后按非字母数字切分，丢弃单字符 token 与停用词。
func (v *Vectorizer) tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	stop := v.stopWords()
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, ok := stop[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

// terms 生成一篇文档的全部 n-gram（停用词过滤在组 n-gram 之前完成）。
func (v *Vectorizer) terms(text string) []string {
	tokens := v.tokenize(text)
	nmax := v.ngramMax()
	if nmax <= 1 {
		return tokens
	}
	out := make([]string, 0, len(tokens)*nmax)
	out = append(out, tokens...)
	for n := 2; n <= nmax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// Fit 在语料上拟合词表与 IDF，并返回每篇文档的 l2 归一化 TF-IDF 向量。
// 词表按语料词频截断到 MaxFeatures；IDF 采用平滑形式 ln((1+n)/(1+df))+1。
// 空语料返回 nil。
func (v *Vectorizer) Fit(docs []string) *Model {
	if len(docs) == 0 {
		return nil
	}

	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)
	docTerms := make([][]string, len(docs))

	for i, doc := range docs {
		terms := v.terms(doc)
		docTerms[i] = terms
		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			corpusFreq[t]++
			if !seen[t] {
				docFreq[t]++
				seen[t] = true
			}
		}
	}

	// 词表截断：按语料词频降序，同频按字典序，保证重复 Fit 的词表顺序稳定
	vocab := make([]string, 0, len(corpusFreq))
	for t := range corpusFreq {
		vocab = append(vocab, t)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if corpusFreq[vocab[i]] != corpusFreq[vocab[j]] {
			return corpusFreq[vocab[i]] > corpusFreq[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if max := v.maxFeatures(); len(vocab) > max {
		vocab = vocab[:max]
	}
	// 词表内部按字典序排列，行向量维度与 Terms 下标一致
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, t := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	m := &Model{Terms: vocab, IDF: idf, index: index}

	m.rowsFromTerms = make([][]float64, len(docs))
	for i, terms := range docTerms {
		m.rowsFromTerms[i] = m.vectorize(terms)
	}
	return m
}

// Model 是拟合后的向量化器状态：词表 + IDF 权重。
type Model struct {
	Terms []string
	IDF   []float64

	index         map[string]int
	rowsFromTerms [][]float64
}

// Rows 返回 Fit 语料的 TF-IDF 矩阵，行序与输入文档一致。
func (m *Model) Rows() [][]float64 {
	return m.rowsFromTerms
}

// Transform 把一篇新文档投影到已拟合的向量空间。
func (m *Model) Transform(v *Vectorizer, text string) []float64 {
	return m.vectorize(v.terms(text))
}

func (m *Model) vectorize(terms []string) []float64 {
	row := make([]float64, len(m.Terms))
	for _, t := range terms {
		if i, ok := m.index[t]; ok {
			row[i] += 1
		}
	}
	for i := range row {
		row[i] *= m.IDF[i]
	}
	// l2 归一化；零向量保持为零（余弦相似度按约定为 0）
	var norm float64
	for _, x := range row {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range row {
			row[i] /= norm
		}
	}
	return row
}
