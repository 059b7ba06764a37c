package parser

// NodeKind is the discriminant of an AST node.
type NodeKind int

const (
	KindProgram NodeKind = iota
	KindBlockStatement
	KindExpressionStatement
	KindVariableDeclaration
	KindFunctionDeclaration
	KindClassDeclaration
	KindInterfaceDeclaration
	KindTypeDeclaration
	KindImportDeclaration
	KindExportDeclaration
	KindIfStatement
	KindLoopStatement
	KindWhileStatement
	KindDoWhileStatement
	KindForStatement
	KindForOfStatement
	KindBreakStatement
	KindContinueStatement
	KindReturnStatement
	KindParameter
	KindClassProperty
	KindClassMethod
	KindClassOperator
	KindInterfaceProperty
	KindInterfaceMethod
	KindImportSpecifier
	KindMapEntry
	KindObjectTypeEntry
	KindNumberLiteral
	KindStringLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindVoidLiteral
	KindInfinityLiteral
	KindArrayLiteral
	KindMapLiteral
	KindIdentifier
	KindThisExpression
	KindBinaryExpression
	KindUnaryExpression
	KindUpdateExpression
	KindAssignmentExpression
	KindMemberExpression
	KindCallExpression
	KindNamedArgument
	KindNewExpression
	KindTypeReference
	KindUnionTypeNode
	KindIntersectionTypeNode
	KindObjectTypeNode
)

var kindNames = [...]string{
	KindProgram:              "Program",
	KindBlockStatement:       "BlockStatement",
	KindExpressionStatement:  "ExpressionStatement",
	KindVariableDeclaration:  "VariableDeclaration",
	KindFunctionDeclaration:  "FunctionDeclaration",
	KindClassDeclaration:     "ClassDeclaration",
	KindInterfaceDeclaration: "InterfaceDeclaration",
	KindTypeDeclaration:      "TypeDeclaration",
	KindImportDeclaration:    "ImportDeclaration",
	KindExportDeclaration:    "ExportDeclaration",
	KindIfStatement:          "IfStatement",
	KindLoopStatement:        "LoopStatement",
	KindWhileStatement:       "WhileStatement",
	KindDoWhileStatement:     "DoWhileStatement",
	KindForStatement:         "ForStatement",
	KindForOfStatement:       "ForOfStatement",
	KindBreakStatement:       "BreakStatement",
	KindContinueStatement:    "ContinueStatement",
	KindReturnStatement:      "ReturnStatement",
	KindParameter:            "Parameter",
	KindClassProperty:        "ClassProperty",
	KindClassMethod:          "ClassMethod",
	KindClassOperator:        "ClassOperator",
	KindInterfaceProperty:    "InterfaceProperty",
	KindInterfaceMethod:      "InterfaceMethod",
	KindImportSpecifier:      "ImportSpecifier",
	KindMapEntry:             "MapEntry",
	KindObjectTypeEntry:      "ObjectTypeEntry",
	KindNumberLiteral:        "NumberLiteral",
	KindStringLiteral:        "StringLiteral",
	KindBooleanLiteral:       "BooleanLiteral",
	KindNullLiteral:          "NullLiteral",
	KindVoidLiteral:          "VoidLiteral",
	KindInfinityLiteral:      "InfinityLiteral",
	KindArrayLiteral:         "ArrayLiteral",
	KindMapLiteral:           "MapLiteral",
	KindIdentifier:           "Identifier",
	KindThisExpression:       "ThisExpression",
	KindBinaryExpression:     "BinaryExpression",
	KindUnaryExpression:      "UnaryExpression",
	KindUpdateExpression:     "UpdateExpression",
	KindAssignmentExpression: "AssignmentExpression",
	KindMemberExpression:     "MemberExpression",
	KindCallExpression:       "CallExpression",
	KindNamedArgument:        "NamedArgument",
	KindNewExpression:        "NewExpression",
	KindTypeReference:        "TypeReference",
	KindUnionTypeNode:        "UnionTypeNode",
	KindIntersectionTypeNode: "IntersectionTypeNode",
	KindObjectTypeNode:       "ObjectTypeNode",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

func (p *Program) Kind() NodeKind { return KindProgram }
func (bs *BlockStatement) Kind() NodeKind { return KindBlockStatement }
func (es *ExpressionStatement) Kind() NodeKind { return KindExpressionStatement }
func (vd *VariableDeclaration) Kind() NodeKind { return KindVariableDeclaration }
func (fd *FunctionDeclaration) Kind() NodeKind { return KindFunctionDeclaration }
func (cd *ClassDeclaration) Kind() NodeKind { return KindClassDeclaration }
func (id *InterfaceDeclaration) Kind() NodeKind { return KindInterfaceDeclaration }
func (td *TypeDeclaration) Kind() NodeKind { return KindTypeDeclaration }
func (id *ImportDeclaration) Kind() NodeKind { return KindImportDeclaration }
func (ed *ExportDeclaration) Kind() NodeKind { return KindExportDeclaration }
func (is *IfStatement) Kind() NodeKind { return KindIfStatement }
func (ls *LoopStatement) Kind() NodeKind { return KindLoopStatement }
func (ws *WhileStatement) Kind() NodeKind { return KindWhileStatement }
func (dws *DoWhileStatement) Kind() NodeKind { return KindDoWhileStatement }
func (fs *ForStatement) Kind() NodeKind { return KindForStatement }
func (fos *ForOfStatement) Kind() NodeKind { return KindForOfStatement }
func (bs *BreakStatement) Kind() NodeKind { return KindBreakStatement }
func (cs *ContinueStatement) Kind() NodeKind { return KindContinueStatement }
func (rs *ReturnStatement) Kind() NodeKind { return KindReturnStatement }
func (p *Parameter) Kind() NodeKind { return KindParameter }
func (cp *ClassProperty) Kind() NodeKind { return KindClassProperty }
func (cm *ClassMethod) Kind() NodeKind { return KindClassMethod }
func (co *ClassOperator) Kind() NodeKind { return KindClassOperator }
func (ip *InterfaceProperty) Kind() NodeKind { return KindInterfaceProperty }
func (im *InterfaceMethod) Kind() NodeKind { return KindInterfaceMethod }
func (is *ImportSpecifier) Kind() NodeKind { return KindImportSpecifier }
func (me *MapEntry) Kind() NodeKind { return KindMapEntry }
func (ote *ObjectTypeEntry) Kind() NodeKind { return KindObjectTypeEntry }
func (nl *NumberLiteral) Kind() NodeKind { return KindNumberLiteral }
func (sl *StringLiteral) Kind() NodeKind { return KindStringLiteral }
func (bl *BooleanLiteral) Kind() NodeKind { return KindBooleanLiteral }
func (nl *NullLiteral) Kind() NodeKind { return KindNullLiteral }
func (vl *VoidLiteral) Kind() NodeKind { return KindVoidLiteral }
func (il *InfinityLiteral) Kind() NodeKind { return KindInfinityLiteral }
func (al *ArrayLiteral) Kind() NodeKind { return KindArrayLiteral }
func (ml *MapLiteral) Kind() NodeKind { return KindMapLiteral }
func (i *Identifier) Kind() NodeKind { return KindIdentifier }
func (te *ThisExpression) Kind() NodeKind { return KindThisExpression }
func (be *BinaryExpression) Kind() NodeKind { return KindBinaryExpression }
func (ue *UnaryExpression) Kind() NodeKind { return KindUnaryExpression }
func (ue *UpdateExpression) Kind() NodeKind { return KindUpdateExpression }
func (ae *AssignmentExpression) Kind() NodeKind { return KindAssignmentExpression }
func (me *MemberExpression) Kind() NodeKind { return KindMemberExpression }
func (ce *CallExpression) Kind() NodeKind { return KindCallExpression }
func (na *NamedArgument) Kind() NodeKind { return KindNamedArgument }
func (ne *NewExpression) Kind() NodeKind { return KindNewExpression }
func (tr *TypeReference) Kind() NodeKind { return KindTypeReference }
func (utn *UnionTypeNode) Kind() NodeKind { return KindUnionTypeNode }
func (itn *IntersectionTypeNode) Kind() NodeKind { return KindIntersectionTypeNode }
func (otn *ObjectTypeNode) Kind() NodeKind { return KindObjectTypeNode }

func (p *Program) node() {}
func (bs *BlockStatement) node() {}
func (es *ExpressionStatement) node() {}
func (vd *VariableDeclaration) node() {}
func (fd *FunctionDeclaration) node() {}
func (cd *ClassDeclaration) node() {}
func (id *InterfaceDeclaration) node() {}
func (td *TypeDeclaration) node() {}
func (id *ImportDeclaration) node() {}
func (ed *ExportDeclaration) node() {}
func (is *IfStatement) node() {}
func (ls *LoopStatement) node() {}
func (ws *WhileStatement) node() {}
func (dws *DoWhileStatement) node() {}
func (fs *ForStatement) node() {}
func (fos *ForOfStatement) node() {}
func (bs *BreakStatement) node() {}
func (cs *ContinueStatement) node() {}
func (rs *ReturnStatement) node() {}
func (p *Parameter) node() {}
func (cp *ClassProperty) node() {}
func (cm *ClassMethod) node() {}
func (co *ClassOperator) node() {}
func (ip *InterfaceProperty) node() {}
func (im *InterfaceMethod) node() {}
func (is *ImportSpecifier) node() {}
func (me *MapEntry) node() {}
func (ote *ObjectTypeEntry) node() {}
func (nl *NumberLiteral) node() {}
func (sl *StringLiteral) node() {}
func (bl *BooleanLiteral) node() {}
func (nl *NullLiteral) node() {}
func (vl *VoidLiteral) node() {}
func (il *InfinityLiteral) node() {}
func (al *ArrayLiteral) node() {}
func (ml *MapLiteral) node() {}
func (i *Identifier) node() {}
func (te *ThisExpression) node() {}
func (be *BinaryExpression) node() {}
func (ue *UnaryExpression) node() {}
func (ue *UpdateExpression) node() {}
func (ae *AssignmentExpression) node() {}
func (me *MemberExpression) node() {}
func (ce *CallExpression) node() {}
func (na *NamedArgument) node() {}
func (ne *NewExpression) node() {}
func (tr *TypeReference) node() {}
func (utn *UnionTypeNode) node() {}
func (itn *IntersectionTypeNode) node() {}
func (otn *ObjectTypeNode) node() {}

func (p *Program) statementNode() {}
func (bs *BlockStatement) statementNode() {}
func (es *ExpressionStatement) statementNode() {}
func (vd *VariableDeclaration) statementNode() {}
func (fd *FunctionDeclaration) statementNode() {}
func (cd *ClassDeclaration) statementNode() {}
func (id *InterfaceDeclaration) statementNode() {}
func (td *TypeDeclaration) statementNode() {}
func (id *ImportDeclaration) statementNode() {}
func (ed *ExportDeclaration) statementNode() {}
func (is *IfStatement) statementNode() {}
func (ls *LoopStatement) statementNode() {}
func (ws *WhileStatement) statementNode() {}
func (dws *DoWhileStatement) statementNode() {}
func (fs *ForStatement) statementNode() {}
func (fos *ForOfStatement) statementNode() {}
func (bs *BreakStatement) statementNode() {}
func (cs *ContinueStatement) statementNode() {}
func (rs *ReturnStatement) statementNode() {}

func (nl *NumberLiteral) expressionNode() {}
func (sl *StringLiteral) expressionNode() {}
func (bl *BooleanLiteral) expressionNode() {}
func (nl *NullLiteral) expressionNode() {}
func (vl *VoidLiteral) expressionNode() {}
func (il *InfinityLiteral) expressionNode() {}
func (al *ArrayLiteral) expressionNode() {}
func (ml *MapLiteral) expressionNode() {}
func (i *Identifier) expressionNode() {}
func (te *ThisExpression) expressionNode() {}
func (be *BinaryExpression) expressionNode() {}
func (ue *UnaryExpression) expressionNode() {}
func (ue *UpdateExpression) expressionNode() {}
func (ae *AssignmentExpression) expressionNode() {}
func (me *MemberExpression) expressionNode() {}
func (ce *CallExpression) expressionNode() {}
func (na *NamedArgument) expressionNode() {}
func (ne *NewExpression) expressionNode() {}

func (tr *TypeReference) typeNode() {}
func (utn *UnionTypeNode) typeNode() {}
func (itn *IntersectionTypeNode) typeNode() {}
func (otn *ObjectTypeNode) typeNode() {}
