// Package tasks loads, queries, and updates task files.
//
// A task file is a single JSON document holding an ordered list of top-level
// tasks, each with optional subtasks:
//
//	{
//	  "schemaVersion": 1,
//	  "tasks": [
//	    {
//	      "id": 1,
//	      "title": "Task title",
//	      "description": "What the task is about",
//	      "status": "pending",
//	      "dependencies": [2, 3],
//	      "priority": "high",
//	      "details": "Implementation notes",
//	      "testStrategy": "How to verify it",
//	      "subtasks": [
//	        {"id": 1, "title": "Subtask title", "status": "done"}
//	      ]
//	    }
//	  ]
//	}
//
// # Identifiers
//
// Top-level task ids are positive integers. Subtask ids are unique only
// within their parent and are addressed with dotted notation: "7.2" is
// subtask 2 of task 7. See ParseRef.
//
// # Status and Priority
//
// Status is an open string. "pending", "in-progress" and "done" carry
// meaning for selection and cascading; any other value is stored verbatim.
// Priority ranks high, medium, low, then anything else (including absent).
//
// # Next Task Selection
//
// A task is eligible when its status is "pending" and every dependency names
// an existing task whose status is "done". Eligible tasks are ordered by
// priority rank, then number of dependencies, then id.
//
// # File Format
//
// When writing task files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Fixed key order for known fields; unknown members are kept as loaded
//   - Whole-file replacement through a temp file and rename
//
// There is no locking. Two processes updating the same file race and the
// last write wins.
package tasks
