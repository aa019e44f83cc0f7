package ir

import (
	"fmt"
	"strings"
)

// Disassemble renders script as human-readable text: one section per
// function, one line per block, one indented line per instruction. Used
// by the CLI's "ir" subcommand and by go-snaps snapshot tests.
func Disassemble(script *Script) string {
	var sb strings.Builder
	for _, s := range script.Strings {
		fmt.Fprintf(&sb, "string %d = %q\n", s.ID, s.Bytes)
	}
	for _, g := range script.Globals {
		fmt.Fprintf(&sb, "global %d %s: %s\n", g.ID, g.Name, g.TypeName)
	}
	sb.WriteString("\n")

	disasmFunction(&sb, "<top-level>", script.TopLevel)
	for _, fn := range script.UserFunctions {
		sb.WriteString("\n")
		disasmFunction(&sb, fn.Name, fn)
	}
	return sb.String()
}

func disasmFunction(sb *strings.Builder, name string, fn *Function) {
	fmt.Fprintf(sb, "function %s(params=%d, locals=%d) entry=b%d\n", name, fn.ParamCount, fn.LocalCount, fn.Entry)
	for _, blk := range fn.Blocks {
		fmt.Fprintf(sb, "b%d:\n", blk.ID)
		for _, instr := range blk.Instrs {
			fmt.Fprintf(sb, "  %s\n", disasmInstr(instr))
		}
	}
}

func disasmInstr(instr Instruction) string {
	switch n := instr.(type) {
	case ConstInt:
		return fmt.Sprintf("ConstInt %d", n.Value)
	case ConstString:
		return fmt.Sprintf("ConstString #%d", n.StringID)
	case LocalGet:
		return fmt.Sprintf("LocalGet %s", localRef(n.Local))
	case LocalSet:
		return fmt.Sprintf("LocalSet %s", localRef(n.Local))
	case GlobalGet:
		return fmt.Sprintf("GlobalGet g%d", n.Global)
	case GlobalSet:
		return fmt.Sprintf("GlobalSet g%d", n.Global)
	case GlobalInit:
		return fmt.Sprintf("GlobalInit g%d%s", n.Global, lpadSuffix(n.Lpad))
	case GlobalReadLock:
		return fmt.Sprintf("GlobalReadLock g%d", n.Global)
	case GlobalReadUnlock:
		return fmt.Sprintf("GlobalReadUnlock g%d", n.Global)
	case GlobalWriteLock:
		return fmt.Sprintf("GlobalWriteLock g%d", n.Global)
	case GlobalWriteUnlock:
		return fmt.Sprintf("GlobalWriteUnlock g%d", n.Global)
	case RefInc:
		return "RefInc"
	case RefDec:
		return fmt.Sprintf("RefDec%s", lpadSuffix(n.Lpad))
	case RefDecNoexcept:
		return "RefDecNoexcept"
	case InvokeBinaryOperator:
		return fmt.Sprintf("InvokeBinaryOperator %s%s", n.OpID, lpadSuffix(n.Lpad))
	case InvokeConversion:
		return fmt.Sprintf("InvokeConversion %s%s", n.ConvID, lpadSuffix(n.Lpad))
	case Call:
		result := ""
		if n.HasResult {
			result = " ->"
		}
		return fmt.Sprintf("Call func=%d args=%d%s%s", n.FuncIndex, n.ArgCount, result, lpadSuffix(n.Lpad))
	case InvokeUnaryOperator:
		return fmt.Sprintf("InvokeUnaryOperator %s%s", n.OpID, lpadSuffix(n.Lpad))
	case InstanceOf:
		return fmt.Sprintf("InstanceOf %s", n.ClassName)
	case NewObject:
		return fmt.Sprintf("NewObject %s args=%d%s", n.ClassName, n.ArgCount, lpadSuffix(n.Lpad))
	case FieldGet:
		return fmt.Sprintf("FieldGet .%s", n.Member)
	case IndexGet:
		return "IndexGet"
	case LifetimeStart:
		return fmt.Sprintf("LifetimeStart %s", localRef(n.Local))
	case LifetimeEnd:
		return fmt.Sprintf("LifetimeEnd %s", localRef(n.Local))
	case LandingPad:
		if n.HasBinding {
			return fmt.Sprintf("LandingPad -> %s", localRef(n.Local))
		}
		return "LandingPad"
	case Branch:
		return fmt.Sprintf("Branch b%d, b%d", n.Then, n.Else)
	case Jump:
		return fmt.Sprintf("Jump b%d", n.Target)
	case Ret:
		return "Ret"
	case RetVoid:
		return "RetVoid"
	case ResumeUnwind:
		return "ResumeUnwind"
	default:
		return fmt.Sprintf("<unknown %T>", instr)
	}
}

// localRef prints the -1 self-reference sentinel as "self" rather than a
// local index, since no real local ever takes a negative index.
func localRef(local int) string {
	if local == -1 {
		return "self"
	}
	return fmt.Sprintf("l%d", local)
}

func lpadSuffix(lpad *BlockID) string {
	if lpad == nil {
		return ""
	}
	return fmt.Sprintf(" lpad=b%d", *lpad)
}
