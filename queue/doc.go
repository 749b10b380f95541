/*
Package queue holds the tasks that grow a tree, one per node to develop,
and the Queue workers pull them from. New returns a Queue kept in memory.
*/
package queue
