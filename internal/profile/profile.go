// Package profile manages reusable prompt presets: a named bundle of
// role, rule, and output-format content that can be applied to the
// editor in one step. Profiles live in the key-value store; four
// built-in presets are seeded on first use and protected from
// deletion.
package profile

import (
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
)

// Profile is one prompt preset.
type Profile struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Icon          string              `json:"icon,omitempty"`
	Color         string              `json:"color,omitempty"`
	RoleContent   string              `json:"roleContent"`
	RuleContent   string              `json:"ruleContent"`
	OutputContent string              `json:"outputContent"`
	DefaultFiles  []artifact.Artifact `json:"defaultFiles,omitempty"`
	Tags          []string            `json:"tags"`
	CreatedAt     int64               `json:"createdAt"`
	UpdatedAt     int64               `json:"updatedAt"`
	IsDefault     bool                `json:"isDefault,omitempty"`
	Category      string              `json:"category,omitempty"`
}

// SearchFilter narrows and orders a profile listing.
type SearchFilter struct {
	Keyword   string   `json:"keyword,omitempty"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	SortBy    string   `json:"sortBy,omitempty"`    // name, createdAt, updatedAt
	SortOrder string   `json:"sortOrder,omitempty"` // asc, desc
}

// Stats summarizes the stored profiles.
type Stats struct {
	TotalProfiles int         `json:"totalProfiles"`
	Categories    []NameCount `json:"categories"`
	Tags          []NameCount `json:"tags"`
}

// NameCount pairs a category or tag name with its usage count.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DefaultProfiles returns the built-in presets seeded on first use.
// The returned slice is freshly allocated; timestamps are stamped by
// the caller.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			ID:          "general-coding",
			Name:        "通用编程助手",
			Description: "适用于一般编程任务的提示词配置",
			Icon:        "💻",
			Color:       "#2196F3",
			RoleContent: `你是一个专业的编程助手，具有丰富的软件开发经验。你能够：
- 理解各种编程语言和框架
- 提供高质量的代码建议和解决方案
- 遵循最佳实践和编码规范
- 帮助调试和优化代码`,
			RuleContent: `请遵循以下规则：
1. 提供清晰、可读的代码
2. 添加必要的注释说明
3. 考虑代码的性能和安全性
4. 遵循相应语言的最佳实践
5. 如果不确定，请说明假设条件`,
			OutputContent: `请按以下格式输出：
## 解决方案
[提供具体的解决方案]

## 代码实现
` + "```" + `[语言]
[代码内容]
` + "```" + `

## 说明
[解释代码逻辑和关键点]

## 注意事项
[需要注意的问题或改进建议]`,
			Tags:      []string{"编程", "通用", "开发"},
			IsDefault: true,
			Category:  "development",
		},
		{
			ID:          "code-review",
			Name:        "代码审查专家",
			Description: "专门用于代码审查和质量评估",
			Icon:        "🔍",
			Color:       "#FF9800",
			RoleContent: `你是一个经验丰富的代码审查专家，专注于：
- 代码质量评估
- 安全漏洞识别
- 性能优化建议
- 最佳实践检查
- 代码规范审查`,
			RuleContent: `代码审查规则：
1. 仔细检查代码逻辑和结构
2. 识别潜在的安全问题
3. 评估代码性能和可维护性
4. 检查是否遵循编码规范
5. 提供具体的改进建议
6. 保持客观和建设性的态度`,
			OutputContent: `## 审查总结
[整体评价和主要发现]

## 问题清单
### 🔴 严重问题
[需要立即修复的问题]

### 🟡 改进建议
[可以优化的地方]

### 🟢 优点
[代码的亮点]

## 修改建议
[具体的修改方案]

## 评分
代码质量: [1-10分]
安全性: [1-10分]
可维护性: [1-10分]`,
			Tags:      []string{"代码审查", "质量", "安全"},
			IsDefault: true,
			Category:  "review",
		},
		{
			ID:          "bug-fix",
			Name:        "问题诊断专家",
			Description: "专门用于调试和修复代码问题",
			Icon:        "🐛",
			Color:       "#F44336",
			RoleContent: `你是一个专业的问题诊断和调试专家，擅长：
- 快速定位代码问题
- 分析错误原因
- 提供修复方案
- 预防类似问题
- 调试技巧指导`,
			RuleContent: `问题诊断规则：
1. 仔细分析错误信息和症状
2. 逐步排查可能的原因
3. 提供多种解决方案
4. 解释问题产生的根本原因
5. 给出预防措施
6. 如需更多信息，明确说明`,
			OutputContent: `## 问题分析
[问题的详细分析]

## 可能原因
1. [原因1及其可能性]
2. [原因2及其可能性]
3. [其他可能原因]

## 解决方案
### 方案一（推荐）
` + "```" + `[语言]
[修复代码]
` + "```" + `

### 方案二（备选）
[备选解决方案]

## 预防措施
[如何避免类似问题]

## 调试建议
[调试技巧和工具推荐]`,
			Tags:      []string{"调试", "修复", "问题诊断"},
			IsDefault: true,
			Category:  "debug",
		},
		{
			ID:          "architecture-design",
			Name:        "架构设计顾问",
			Description: "用于系统架构设计和技术选型",
			Icon:        "🏗️",
			Color:       "#9C27B0",
			RoleContent: `你是一个资深的系统架构师，专长包括：
- 系统架构设计
- 技术选型建议
- 性能和扩展性规划
- 微服务架构
- 数据库设计
- 安全架构`,
			RuleContent: `架构设计原则：
1. 考虑系统的可扩展性和可维护性
2. 平衡性能、成本和复杂度
3. 遵循架构最佳实践
4. 考虑团队技术栈和能力
5. 提供多种方案对比
6. 考虑未来发展需求`,
			OutputContent: `## 架构概述
[整体架构描述]

## 技术选型
| 组件 | 推荐技术 | 理由 |
|------|----------|------|
| [组件1] | [技术1] | [选择理由] |

## 架构图
[架构图描述或建议]

## 关键设计决策
1. [决策1及其理由]
2. [决策2及其理由]

## 风险和挑战
[潜在风险及应对策略]

## 实施建议
[分阶段实施计划]`,
			Tags:      []string{"架构", "设计", "技术选型"},
			IsDefault: true,
			Category:  "architecture",
		},
	}
}
