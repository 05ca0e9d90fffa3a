// Package utils 提供 hash/serialize 等通用工具
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// SHA256Hash 计算 SHA256 哈希
func SHA256Hash(data string) string {
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// Fingerprint 对任意可 JSON 序列化的值计算稳定指纹。
// map 字段按 key 排序后序列化，保证同一请求内容产生同一指纹。
func Fingerprint(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal for fingerprint: %w", err)
	}

	// json.Marshal 已对 map key 排序；对顶层再做一次归一化以防结构体嵌 map
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return "", err
	}
	canonical, err := json.Marshal(sortKeys(generic))
	if err != nil {
		return "", err
	}
	return SHA256Hash(string(canonical)), nil
}

func sortKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]interface{}, len(t))
		for _, k := range keys {
			out[k] = sortKeys(t[k])
		}
		return out
	case []interface{}:
		for i := range t {
			t[i] = sortKeys(t[i])
		}
		return t
	default:
		return v
	}
}
